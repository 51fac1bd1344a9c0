package guide

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnswer(t *testing.T) {
	g := Default()

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"Clownfish", "흰동가리는 어디 살아요?", DefaultRules[0].Response},
		{"Nemo", "니모 봤어요", DefaultRules[0].Response},
		{"Shark", "상어 무서워요", DefaultRules[1].Response},
		{"Turtle", "바다거북 수명", DefaultRules[2].Response},
		{"TurtleLoanword", "터틀", DefaultRules[2].Response},
		{"FirstRuleWins", "니모랑 상어", DefaultRules[0].Response},
		{"Fallback", "what should I pack?", Fallback},
		{"Empty", "", Fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Answer(tt.query))
		})
	}
}

func TestAnswer_CaseInsensitive(t *testing.T) {
	g := New([]Rule{{Keywords: []string{"Manta"}, Response: "ray"}}, "?")
	assert.Equal(t, "ray", g.Answer("saw a MANTA today"))
	assert.Equal(t, "?", g.Answer("saw a dolphin"))
}

func TestReply(t *testing.T) {
	g := Default()

	user, ai := g.Reply("상어", "")
	assert.Equal(t, SenderUser, user.Type)
	assert.Equal(t, "상어", user.Content)
	assert.Equal(t, SenderAI, ai.Type)
	assert.Equal(t, DefaultRules[1].Response, ai.Content)
	assert.NotEqual(t, user.ID, ai.ID)

	user, ai = g.Reply("", "https://cdn.example.com/p.jpg")
	assert.Equal(t, PhotoQuestion, user.Content)
	assert.Equal(t, "https://cdn.example.com/p.jpg", user.Image)
	assert.Equal(t, PhotoReply, ai.Content)
}

func TestGreet(t *testing.T) {
	m := Default().Greet()
	assert.Equal(t, SenderAI, m.Type)
	assert.Equal(t, Greeting, m.Content)
	assert.NotEmpty(t, m.ID)
}
