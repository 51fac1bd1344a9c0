// Package guide answers diver questions with a fixed set of keyword rules.
package guide

import (
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	Greeting = "안녕하세요! 저는 My Sea의 AI 해양 가이드예요. 🐠\n\n" +
		"다이빙 중 발견한 해양 생물 사진을 보내주시면 식별해드리고, 궁금한 점이 있으시면 무엇이든 물어보세요!"

	Fallback = "좋은 질문이에요! 🌊\n\n" +
		"더 자세한 정보를 드리려면 해양 생물 사진을 보내주시거나, 구체적인 생물 이름을 알려주세요. " +
		"다이빙 팁이나 장비에 대한 질문도 환영해요!"

	PhotoQuestion = "이 생물이 뭔가요?"

	PhotoReply = "사진을 분석했어요! 📸\n\n" +
		"이것은 **흰동가리(Clownfish)**로 보여요!\n\n" +
		"• 학명: Amphiprioninae\n• 희귀도: 흔함\n• 위험도: 안전\n\n" +
		"말미잘 근처에서 살며, 화려한 주황색이 특징이에요. 니모 영화의 주인공이기도 하죠! 😊"
)

type Rule struct {
	Keywords []string
	Response string
}

func (r Rule) matches(lower string) bool {
	for _, k := range r.Keywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

var DefaultRules = []Rule{
	{
		Keywords: []string{"흰동가리", "니모"},
		Response: "흰동가리(Clownfish)는 니모로도 잘 알려진 열대어예요! 🐠\n\n" +
			"• 크기: 10-15cm\n• 서식지: 말미잘과 공생\n• 특징: 밝은 주황색과 흰 줄무늬\n\n" +
			"말미잘의 독에 면역이 있어서 그 안에서 안전하게 살아요. 정말 신기하죠?",
	},
	{
		Keywords: []string{"상어"},
		Response: "상어에 대해 궁금하시군요! 🦈\n\n" +
			"상어는 4억년 이상 지구에 살아온 고대 생물이에요. 대부분의 상어는 인간에게 위험하지 않으며, " +
			"오히려 해양 생태계에서 중요한 역할을 해요.\n\n" +
			"다이빙 중 상어를 만나면 침착하게 행동하고, 갑작스러운 움직임을 피하세요!",
	},
	{
		Keywords: []string{"거북", "터틀"},
		Response: "바다거북은 정말 우아한 동물이에요! 🐢\n\n" +
			"• 수명: 80년 이상\n• 크기: 최대 180cm\n• 먹이: 해초, 해파리\n\n" +
			"제주도 근해에서도 가끔 볼 수 있어요. 만약 만나게 된다면 조용히 관찰하고, 절대 만지지 마세요!",
	},
}

// Guide returns the response of the first matching rule, in order.
type Guide struct {
	rules    []Rule
	fallback string
}

func New(rules []Rule, fallback string) *Guide {
	return &Guide{rules: rules, fallback: fallback}
}

func Default() *Guide {
	return New(DefaultRules, Fallback)
}

func (g *Guide) Answer(query string) string {
	lower := strings.ToLower(query)
	for _, r := range g.rules {
		if r.matches(lower) {
			return r.Response
		}
	}
	return g.fallback
}

type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

type Message struct {
	ID        string    `json:"id"`
	Type      Sender    `json:"type"`
	Content   string    `json:"content"`
	Image     string    `json:"image,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func newMessage(sender Sender, content, image string) Message {
	return Message{
		ID:        ulid.Make().String(),
		Type:      sender,
		Content:   content,
		Image:     image,
		Timestamp: time.Now(),
	}
}

// Reply builds the exchange for a text question, or for a photo when imageURL is set.
func (g *Guide) Reply(content, imageURL string) (Message, Message) {
	if imageURL != "" {
		if strings.TrimSpace(content) == "" {
			content = PhotoQuestion
		}
		return newMessage(SenderUser, content, imageURL), newMessage(SenderAI, PhotoReply, "")
	}
	return newMessage(SenderUser, content, ""), newMessage(SenderAI, g.Answer(content), "")
}

func (g *Guide) Greet() Message {
	return newMessage(SenderAI, Greeting, "")
}
