// Package telemetry publishes circularity reports to an MQTT broker so a test
// bench can collect results from several stations.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/soar/padcheck/internal/circularity"
)

const publishTimeout = 2 * time.Second

// ReportSource yields the reports to publish on each interval.
type ReportSource interface {
	Reports() []circularity.Report
}

type Publisher struct {
	broker   string
	clientID string
	prefix   string
	interval time.Duration
	source   ReportSource
}

func NewPublisher(broker, clientID, prefix string, interval time.Duration, source ReportSource) *Publisher {
	if interval <= 0 {
		interval = time.Second
	}
	return &Publisher{
		broker:   broker,
		clientID: clientID,
		prefix:   prefix,
		interval: interval,
		source:   source,
	}
}

// Topic is the topic a report is published on: <prefix>/<slot>/circularity/<stick>.
func Topic(prefix string, r circularity.Report) string {
	return fmt.Sprintf("%s/%d/circularity/%s", prefix, r.Slot, r.Stick)
}

// Run connects to the broker and publishes every report each interval until
// ctx is cancelled.
func (p *Publisher) Run(ctx context.Context) error {
	opts := mqtt.NewClientOptions().
		AddBroker(p.broker).
		SetClientID(p.clientID).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect to MQTT broker %s: %w", p.broker, token.Error())
	}
	defer client.Disconnect(250)
	log.Printf("Telemetry connected to MQTT broker at %s", p.broker)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.publishAll(client)
		}
	}
}

func (p *Publisher) publishAll(client mqtt.Client) {
	for _, r := range p.source.Reports() {
		payload, err := json.Marshal(r)
		if err != nil {
			log.Printf("Telemetry marshal error: %v", err)
			continue
		}
		token := client.Publish(Topic(p.prefix, r), 0, true, payload)
		if !token.WaitTimeout(publishTimeout) {
			log.Printf("Telemetry publish timed out for slot %d %s", r.Slot, r.Stick)
			continue
		}
		if err := token.Error(); err != nil {
			log.Printf("Telemetry publish error: %v", err)
		}
	}
}
