package mqtt

import (
	"errors"
	"testing"

	"github.com/goccy/go-json"
)

func TestTopicMatch(t *testing.T) {
	tests := []struct {
		pattern string
		topic   string
		want    bool
	}{
		{"leaderboard", "leaderboard", true},
		{"leaderboard", "levels", false},
		{"levels/+", "levels/123", true},
		{"levels/+", "levels/123/extra", false},
		{"stats/#", "stats", true},
		{"stats/#", "stats/a/b", true},
		{"a/b", "a", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"->"+tt.topic, func(t *testing.T) {
			if got := topicMatch(tt.pattern, tt.topic); got != tt.want {
				t.Errorf("topicMatch(%q, %q) = %v, want %v", tt.pattern, tt.topic, got, tt.want)
			}
		})
	}
}

func TestDispatch(t *testing.T) {
	mc := &MqttCommunicator{}
	mc.routes = append(mc.routes, route{pattern: "leaderboard", handler: func(payload map[string]interface{}) (interface{}, error) {
		return map[string]interface{}{"topic": payload["_topic"], "limit": payload["limit"]}, nil
	}})
	mc.routes = append(mc.routes, route{pattern: "levels/+", handler: func(payload map[string]interface{}) (interface{}, error) {
		return nil, errors.New("sin datos")
	}})

	raw, _ := json.Marshal(MqttRequest{CorrelationID: "abc", Payload: map[string]interface{}{"limit": 3}})

	topic, resp, ok := mc.dispatch("community/request/leaderboard", raw)
	if !ok {
		t.Fatal("dispatch ignored a routed request")
	}
	if topic != "community/response/leaderboard/abc" {
		t.Errorf("response topic = %q", topic)
	}
	data, _ := resp.Data.(map[string]interface{})
	if resp.CorrelationID != "abc" || data["topic"] != "leaderboard" || data["limit"] != float64(3) {
		t.Errorf("response = %+v", resp)
	}

	_, resp, ok = mc.dispatch("community/request/levels/42", raw)
	if !ok || resp.Error != "sin datos" {
		t.Errorf("error response = %+v ok=%v", resp, ok)
	}

	if _, _, ok := mc.dispatch("community/request/unknown", raw); ok {
		t.Error("unrouted topic should be ignored")
	}
	if _, _, ok := mc.dispatch("community/request/leaderboard", []byte("{")); ok {
		t.Error("malformed payload should be ignored")
	}
	if _, _, ok := mc.dispatch("community/request/leaderboard", []byte(`{"payload":{}}`)); ok {
		t.Error("request without correlation ID should be ignored")
	}
}

func TestNewEvent(t *testing.T) {
	ev := NewEvent(EventLevelUp, map[string]int{"level": 2})
	if ev.ID == "" || ev.Kind != EventLevelUp || ev.Timestamp.IsZero() {
		t.Errorf("event = %+v", ev)
	}
	if EventTopic(EventLevelUp) != "community/events/levelup" {
		t.Errorf("EventTopic = %q", EventTopic(EventLevelUp))
	}

	var p Publisher = Nop{}
	p.PublishEvent(EventMember, nil)
}
