package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/centrifugal/centrifuge"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/user/mysea-back/internal/auth"
	"github.com/user/mysea-back/internal/models"
)

// DataProvider loads initial state for a user
type DataProvider interface {
	GetReadyState(ctx context.Context, userID uuid.UUID) (*models.ReadyEvent, error)
}

// Envelope is the shape of every publication on a user channel.
type Envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func UserChannel(userID string) string {
	return "user:" + userID
}

type Node struct {
	node         *centrifuge.Node
	tokenService *auth.TokenService
	dataProvider DataProvider
	rpc          map[string]RPCHandler
}

func NewNode(tokenService *auth.TokenService, dataProvider DataProvider) (*Node, error) {
	node, err := centrifuge.New(centrifuge.Config{
		LogLevel:   centrifuge.LogLevelInfo,
		LogHandler: logHandler,
	})
	if err != nil {
		return nil, err
	}

	n := &Node{
		node:         node,
		tokenService: tokenService,
		dataProvider: dataProvider,
		rpc:          make(map[string]RPCHandler),
	}

	// Auth via JWT in connect request
	node.OnConnecting(func(ctx context.Context, e centrifuge.ConnectEvent) (centrifuge.ConnectReply, error) {
		if e.Token == "" {
			return centrifuge.ConnectReply{}, centrifuge.DisconnectInvalidToken
		}

		userID, err := tokenService.Verify(e.Token)
		if err != nil {
			return centrifuge.ConnectReply{}, centrifuge.DisconnectInvalidToken
		}

		return centrifuge.ConnectReply{
			Credentials: &centrifuge.Credentials{
				UserID: userID.String(),
			},
		}, nil
	})

	node.OnConnect(func(client *centrifuge.Client) {
		log := logrus.WithFields(logrus.Fields{
			"client_id": client.ID(),
			"user_id":   client.UserID(),
		})
		log.Debug("Client connected")

		userID, err := uuid.Parse(client.UserID())
		if err != nil {
			return
		}

		client.OnSubscribe(func(e centrifuge.SubscribeEvent, cb centrifuge.SubscribeCallback) {
			if e.Channel != UserChannel(client.UserID()) {
				cb(centrifuge.SubscribeReply{}, centrifuge.ErrorPermissionDenied)
				return
			}

			readyState, err := n.dataProvider.GetReadyState(context.Background(), userID)
			if err != nil {
				log.WithError(err).Error("Failed to load ready state")
				cb(centrifuge.SubscribeReply{}, centrifuge.ErrorInternal)
				return
			}

			// READY goes out once the subscription is in place.
			go func() {
				time.Sleep(10 * time.Millisecond)
				if err := n.PublishToUser(userID, models.EventReady, readyState); err != nil {
					log.WithError(err).Warn("Failed to send READY")
				}
			}()

			cb(centrifuge.SubscribeReply{}, nil)
		})

		client.OnRPC(func(e centrifuge.RPCEvent, cb centrifuge.RPCCallback) {
			h, ok := n.rpc[e.Method]
			if !ok {
				cb(centrifuge.RPCReply{}, centrifuge.ErrorMethodNotFound)
				return
			}
			data, err := h(userID, e.Data)
			if err != nil {
				log.WithError(err).WithField("method", e.Method).Debug("RPC rejected")
				cb(centrifuge.RPCReply{}, rpcError(err))
				return
			}
			cb(centrifuge.RPCReply{Data: data}, nil)
		})

		client.OnDisconnect(func(e centrifuge.DisconnectEvent) {
			log.WithField("reason", e.Reason).Debug("Client disconnected")
		})
	})

	return n, nil
}

// HandleRPC registers h for method. Call before Run.
func (n *Node) HandleRPC(method string, h RPCHandler) {
	n.rpc[method] = h
}

func (n *Node) Run() error {
	return n.node.Run()
}

func (n *Node) Shutdown(ctx context.Context) error {
	return n.node.Shutdown(ctx)
}

func (n *Node) WebsocketHandler() http.Handler {
	return centrifuge.NewWebsocketHandler(n.node, centrifuge.WebsocketConfig{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	})
}

func (n *Node) PublishToUser(userID uuid.UUID, eventType string, data interface{}) error {
	payload, err := json.Marshal(Envelope{Type: eventType, Data: data})
	if err != nil {
		return err
	}

	_, err = n.node.Publish(UserChannel(userID.String()), payload)
	return err
}

var logLevels = map[centrifuge.LogLevel]logrus.Level{
	centrifuge.LogLevelDebug: logrus.DebugLevel,
	centrifuge.LogLevelInfo:  logrus.InfoLevel,
	centrifuge.LogLevelWarn:  logrus.WarnLevel,
	centrifuge.LogLevelError: logrus.ErrorLevel,
}

func logHandler(e centrifuge.LogEntry) {
	level, ok := logLevels[e.Level]
	if !ok {
		level = logrus.InfoLevel
	}
	logrus.WithFields(logrus.Fields(e.Fields)).WithField("prefix", "centrifuge").Log(level, e.Message)
}
