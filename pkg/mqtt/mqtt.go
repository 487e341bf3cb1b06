// Package mqtt provides MQTT communication capabilities for the bot.
// Community events are published on community/events/<kind>; other services
// can query the bot through community/request/<name>, answered on
// community/response/<name>/<correlationId>.
package mqtt

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/PancyCommunityGo/pkg/logger"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	topicRoot     = "community"
	requestRoot   = topicRoot + "/request/"
	responseRoot  = topicRoot + "/response/"
	eventsRoot    = topicRoot + "/events/"
	StatsTopic    = topicRoot + "/stats"
	publishWait   = 2 * time.Second
	subscribeWait = 5 * time.Second
)

// Event kinds published by the bot
const (
	EventLevelUp    = "levelup"
	EventModeration = "moderation"
	EventPurchase   = "purchase"
	EventMember     = "member"
)

// EventTopic returns the topic for an event kind
func EventTopic(kind string) string {
	return eventsRoot + kind
}

// Event is the envelope of every published community event
type Event struct {
	ID        string      `json:"id"`
	Kind      string      `json:"kind"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent wraps data in an envelope with a fresh ID
func NewEvent(kind string, data interface{}) Event {
	return Event{
		ID:        uuid.New().String(),
		Kind:      kind,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// Publisher emits community events. Implementations must not block the caller
// for long; failures are logged, not returned.
type Publisher interface {
	PublishEvent(kind string, data interface{})
}

// Nop discards every event. Used when MQTT is not configured.
type Nop struct{}

func (Nop) PublishEvent(string, interface{}) {}

// MqttRequest represents an MQTT request message
type MqttRequest struct {
	CorrelationID string      `json:"correlationId"`
	Payload       interface{} `json:"payload,omitempty"`
}

// MqttResponse represents an MQTT response message
type MqttResponse struct {
	CorrelationID string      `json:"correlationId"`
	Data          interface{} `json:"data"`
	Error         string      `json:"error,omitempty"`
}

// RequestHandler is a function type for handling MQTT requests
type RequestHandler func(payload map[string]interface{}) (interface{}, error)

type route struct {
	pattern string
	handler RequestHandler
}

// MqttCommunicator handles MQTT communication
type MqttCommunicator struct {
	client   mqtt.Client
	clientID string

	mu     sync.RWMutex
	routes []route
}

var (
	communicator *MqttCommunicator
	once         sync.Once
)

// Init initializes the global MQTT communicator
func Init(host, port, username, password, clientID string) *MqttCommunicator {
	once.Do(func() {
		communicator = NewMqttCommunicator(host, port, username, password, clientID)
	})
	return communicator
}

// Get returns the global MQTT communicator
func Get() *MqttCommunicator {
	return communicator
}

// NewMqttCommunicator creates a new MQTT communicator and connects in the
// background; paho keeps retrying until the broker is reachable.
func NewMqttCommunicator(host, port, username, password, clientID string) *MqttCommunicator {
	mc := &MqttCommunicator{clientID: clientID}

	uniqueID := fmt.Sprintf("%s_%s", clientID, uuid.New().String())

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%s", host, port)).
		SetClientID(uniqueID).
		SetUsername(username).
		SetPassword(password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(c mqtt.Client) {
			logger.Success(fmt.Sprintf("Conectado al broker MQTT como %s", clientID), "MQTT")
			mc.subscribeRequests()
		}).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			logger.Error(fmt.Sprintf("Conexión MQTT perdida: %v", err), "MQTT")
		})

	mc.client = mqtt.NewClient(opts)

	token := mc.client.Connect()
	if token.WaitTimeout(subscribeWait) && token.Error() != nil {
		logger.Error(fmt.Sprintf("Error de conexión MQTT: %v", token.Error()), "MQTT")
	}

	return mc
}

// Destroy closes the MQTT connection
func (mc *MqttCommunicator) Destroy() {
	if mc.client != nil && mc.client.IsConnected() {
		mc.client.Disconnect(250)
		logger.System("Conexión MQTT cerrada exitosamente.", "MQTT")
	} else {
		logger.Warn("El cliente MQTT no estaba conectado, no se necesita cerrar.", "MQTT")
	}
}

// IsConnected returns true if connected to the broker
func (mc *MqttCommunicator) IsConnected() bool {
	return mc.client != nil && mc.client.IsConnected()
}

// Publish sends a message to a topic
func (mc *MqttCommunicator) Publish(topic string, payload interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	token := mc.client.Publish(topic, 0, false, jsonData)
	if !token.WaitTimeout(publishWait) {
		return fmt.Errorf("publicación en '%s' expirada", topic)
	}
	return token.Error()
}

// PublishEvent publishes a community event, logging failures
func (mc *MqttCommunicator) PublishEvent(kind string, data interface{}) {
	if !mc.IsConnected() {
		logger.Debug("MQTT desconectado, evento descartado: "+kind, "MQTT")
		return
	}
	if err := mc.Publish(EventTopic(kind), NewEvent(kind, data)); err != nil {
		logger.Warn(fmt.Sprintf("Error publicando evento %s: %v", kind, err), "MQTT")
	}
}

// PublishStats publishes a stats snapshot on StatsTopic
func (mc *MqttCommunicator) PublishStats(data interface{}) error {
	if !mc.IsConnected() {
		return fmt.Errorf("MQTT no está conectado")
	}
	return mc.Publish(StatsTopic, NewEvent("stats", data))
}

// On registers a handler for a request topic. Patterns may use the MQTT
// wildcards '+' and '#'. Requests are served through a single subscription
// to community/request/#.
func (mc *MqttCommunicator) On(requestTopic string, callback RequestHandler) {
	mc.mu.Lock()
	mc.routes = append(mc.routes, route{pattern: requestTopic, handler: callback})
	mc.mu.Unlock()

	if mc.IsConnected() {
		mc.subscribeRequests()
	}
}

func (mc *MqttCommunicator) subscribeRequests() {
	mc.mu.RLock()
	empty := len(mc.routes) == 0
	mc.mu.RUnlock()
	if empty {
		return
	}

	token := mc.client.Subscribe(requestRoot+"#", 0, func(c mqtt.Client, msg mqtt.Message) {
		responseTopic, response, ok := mc.dispatch(msg.Topic(), msg.Payload())
		if !ok {
			return
		}
		if err := mc.Publish(responseTopic, response); err != nil {
			logger.Warn(fmt.Sprintf("Error respondiendo %s: %v", responseTopic, err), "MQTT")
		}
	})

	if token.WaitTimeout(subscribeWait) && token.Error() != nil {
		logger.Error(fmt.Sprintf("Error subscribing to topic %s#: %v", requestRoot, token.Error()), "MQTT")
	}
}

// match returns the handler registered for a request topic
func (mc *MqttCommunicator) match(topic string) (RequestHandler, bool) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	for _, r := range mc.routes {
		if topicMatch(r.pattern, topic) {
			return r.handler, true
		}
	}
	return nil, false
}

// dispatch decodes a request, runs its handler and builds the response.
// ok is false when the message should be ignored.
func (mc *MqttCommunicator) dispatch(receivedTopic string, raw []byte) (string, MqttResponse, bool) {
	actualTopic := strings.TrimPrefix(receivedTopic, requestRoot)

	callback, found := mc.match(actualTopic)
	if !found {
		return "", MqttResponse{}, false
	}

	var request MqttRequest
	if err := json.Unmarshal(raw, &request); err != nil {
		logger.Error(fmt.Sprintf("Error parsing MQTT request: %v", err), "MQTT")
		return "", MqttResponse{}, false
	}
	if request.CorrelationID == "" {
		return "", MqttResponse{}, false
	}

	payloadMap := make(map[string]interface{})
	if pm, ok := request.Payload.(map[string]interface{}); ok {
		payloadMap = pm
	}
	payloadMap["_topic"] = actualTopic

	response := MqttResponse{CorrelationID: request.CorrelationID}
	data, err := callback(payloadMap)
	if err != nil {
		response.Error = err.Error()
	} else {
		response.Data = data
	}

	return fmt.Sprintf("%s%s/%s", responseRoot, actualTopic, request.CorrelationID), response, true
}

// topicMatch checks if a received topic matches a pattern (with wildcards)
// '+' matches exactly one topic level
// '#' matches zero or more topic levels and must be the last character
func topicMatch(pattern, topic string) bool {
	patternParts := strings.Split(pattern, "/")
	topicParts := strings.Split(topic, "/")

	for i, part := range patternParts {
		if part == "#" {
			return true
		}
		if i >= len(topicParts) {
			return false
		}
		if part == "+" {
			continue
		}
		if part != topicParts[i] {
			return false
		}
	}

	return len(patternParts) == len(topicParts)
}
