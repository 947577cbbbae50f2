package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"counseling-userservice-be/internal/dto"
	"counseling-userservice-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const clusterChannel = "userservice_events"

// Hub tracks connected consultants and pushes live notifications to
// them. With Redis configured, pushes are fanned out across instances
// over a pub/sub channel; without it the hub is instance-local.
type Hub struct {
	// ConsultantID -> connections (multi-device)
	clients map[string][]*Client

	// ConsultantID -> agency ids, captured at connect time so agency
	// broadcasts can be routed without a database lookup per push.
	agencies map[string][]int64

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb *redis.Client

	logger logger.ILogger
}

type clusterPayload struct {
	TargetConsultantId string          `json:"target_consultant_id,omitempty"`
	TargetAgencyId     *int64          `json:"target_agency_id,omitempty"`
	Message            json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		agencies:   make(map[string][]int64),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ConsultantId] = append(h.clients[client.ConsultantId], client)
			h.agencies[client.ConsultantId] = client.AgencyIds
			h.mu.Unlock()
			h.logger.Info("Hub", "Consultant connected", map[string]interface{}{"consultant_id": client.ConsultantId})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.ConsultantId]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.ConsultantId] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.ConsultantId]) == 0 {
					delete(h.clients, client.ConsultantId)
					delete(h.agencies, client.ConsultantId)
					h.logger.Info("Hub", "Consultant disconnected", map[string]interface{}{"consultant_id": client.ConsultantId})
				}
			}
			h.mu.Unlock()
		}
	}
}

// SendToConsultant pushes a notification to every connection of one
// consultant, locally and through Redis for other instances.
func (h *Hub) SendToConsultant(consultantId string, notification dto.LiveNotification) {
	data, _ := json.Marshal(notification)

	h.mu.RLock()
	clients := h.clients[consultantId]
	h.mu.RUnlock()

	for _, client := range clients {
		h.deliver(client, data)
	}

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterPayload{
			TargetConsultantId: consultantId,
			Message:            data,
		})
		h.rdb.Publish(context.Background(), clusterChannel, payload)
	}
}

// BroadcastToAgency pushes a notification to every connected consultant
// of the agency.
func (h *Hub) BroadcastToAgency(agencyId int64, notification dto.LiveNotification) {
	data, _ := json.Marshal(notification)

	h.broadcastAgencyLocal(agencyId, data)

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterPayload{
			TargetAgencyId: &agencyId,
			Message:        data,
		})
		h.rdb.Publish(context.Background(), clusterChannel, payload)
	}
}

func (h *Hub) broadcastAgencyLocal(agencyId int64, data []byte) {
	h.mu.RLock()
	targets := make([]*Client, 0)
	for consultantId, agencyIds := range h.agencies {
		for _, id := range agencyIds {
			if id == agencyId {
				targets = append(targets, h.clients[consultantId]...)
				break
			}
		}
	}
	h.mu.RUnlock()

	for _, client := range targets {
		h.deliver(client, data)
	}
}

func (h *Hub) deliver(client *Client, data []byte) {
	select {
	case client.Send <- data:
	default:
		h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"consultant_id": client.ConsultantId})
		close(client.Send)
		h.unregister <- client
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload clusterPayload
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("Hub", "Failed to parse cluster message", map[string]interface{}{"error": err.Error()})
			continue
		}

		if payload.TargetAgencyId != nil {
			h.broadcastAgencyLocal(*payload.TargetAgencyId, payload.Message)
			continue
		}

		h.mu.RLock()
		clients := h.clients[payload.TargetConsultantId]
		h.mu.RUnlock()

		for _, client := range clients {
			h.deliver(client, payload.Message)
		}
	}
}
