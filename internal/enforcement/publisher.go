// Package enforcement exports focus state transitions to the app-restriction
// collaborator over MQTT. The collaborator enforces the blocking; this side
// only publishes state and window bounds.
package enforcement

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/sajda-app/sajda/internal/model"
)

// MQTT connection handler
var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

// MQTT connection lost handler
var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Warn().Err(err).Msg("MQTT connection lost")
}

type Publisher struct {
	client mqtt.Client
}

// NewPublisher connects to the broker. A connect failure is returned so the
// caller can run without enforcement export.
func NewPublisher(brokerURL, clientID string) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return &Publisher{client: client}, nil
}

type statePayload struct {
	Prayer      model.PrayerName `json:"prayer"`
	Day         string           `json:"day"`
	State       model.FocusState `json:"state"`
	WindowStart string           `json:"window_start"`
	WindowEnd   string           `json:"window_end"`
}

// PublishTransition sends one committed state change. Fire and forget; the
// transition is already committed, a publish failure only costs freshness
// for a polling collaborator.
func (p *Publisher) PublishTransition(userID int, s model.BlockingSession) {
	payload, err := json.Marshal(statePayload{
		Prayer:      s.Prayer,
		Day:         s.Day,
		State:       s.State,
		WindowStart: s.WindowStart.Format(time.RFC3339),
		WindowEnd:   s.WindowEnd.Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	topic := fmt.Sprintf("focus/%d/state", userID)
	if token := p.client.Publish(topic, 0, true, payload); token.Wait() && token.Error() != nil {
		log.Warn().Err(token.Error()).Str("topic", topic).Msg("failed to publish focus state")
	}
}
