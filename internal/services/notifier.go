package services

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"vetrina/internal/models"
)

// Routing keys of the events published by the services.
const (
	RoutingPlaceReviewed = "place.reviewed"
	RoutingOrderCreated  = "order.created"
)

// Publisher sends an event body to the message broker.
type Publisher interface {
	Publish(routingKey string, body []byte) error
}

// PlaceReviewedEvent tells a submitter that a moderator approved or rejected
// their place. It carries a ready-to-send email.
type PlaceReviewedEvent struct {
	PlaceID  string `json:"place_id"`
	Name     string `json:"name"`
	Approved bool   `json:"approved"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
}

// OrderCreatedEvent is published after a successful checkout.
type OrderCreatedEvent struct {
	OrderID   string `json:"order_id"`
	SessionID string `json:"session_id"`
	To        string `json:"to"`
	Total     string `json:"total"`
	Items     int    `json:"items"`
}

// Notifier publishes domain events. With no publisher configured the events
// are only logged.
type Notifier struct {
	pub Publisher
}

// NewNotifier creates a notifier; pub may be nil.
func NewNotifier(pub Publisher) *Notifier {
	return &Notifier{pub: pub}
}

func reviewEmail(place models.Place, approved bool) PlaceReviewedEvent {
	ev := PlaceReviewedEvent{
		PlaceID:  place.ID,
		Name:     place.Name,
		Approved: approved,
		To:       place.SubmitterEmail,
	}
	if approved {
		ev.Subject = fmt.Sprintf("Your place %q has been approved!", place.Name)
		ev.Body = fmt.Sprintf("Congratulations! Your place %q has been approved and is now visible on the map.", place.Name)
	} else {
		ev.Subject = fmt.Sprintf("Your place %q was not approved.", place.Name)
		ev.Body = fmt.Sprintf("We are sorry, your place %q was not approved. Contact us for more details.", place.Name)
	}
	return ev
}

// PlaceReviewed notifies the submitter, if they left an email, and returns
// the event that was sent.
func (n *Notifier) PlaceReviewed(place models.Place, approved bool) *PlaceReviewedEvent {
	if place.SubmitterEmail == "" {
		return nil
	}
	ev := reviewEmail(place, approved)
	n.publish(RoutingPlaceReviewed, ev)
	return &ev
}

// OrderCreated announces a new order.
func (n *Notifier) OrderCreated(order models.Order) {
	n.publish(RoutingOrderCreated, OrderCreatedEvent{
		OrderID:   order.ID,
		SessionID: order.SessionID,
		To:        order.CustomerEmail,
		Total:     order.TotalPrice.StringFixed(2),
		Items:     len(order.Items),
	})
}

func (n *Notifier) publish(routingKey string, event interface{}) {
	body, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).WithField("routing_key", routingKey).Error("Failed to marshal event")
		return
	}
	if n == nil || n.pub == nil {
		log.WithField("routing_key", routingKey).Infof("Event (no broker configured): %s", body)
		return
	}
	if err := n.pub.Publish(routingKey, body); err != nil {
		log.WithError(err).WithField("routing_key", routingKey).Warn("Failed to publish event")
		return
	}
	log.WithField("routing_key", routingKey).Debug("Event published")
}

// HandleNotification processes an event received from the broker. Review
// events become the email to the submitter; delivery itself is simulated by
// logging it.
func HandleNotification(routingKey string, body []byte) error {
	switch routingKey {
	case RoutingPlaceReviewed:
		var ev PlaceReviewedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return errors.Wrap(err, "decode place review event")
		}
		log.WithFields(log.Fields{"to": ev.To, "subject": ev.Subject}).Infof("Simulated email: %s", ev.Body)
	case RoutingOrderCreated:
		var ev OrderCreatedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return errors.Wrap(err, "decode order event")
		}
		log.WithFields(log.Fields{"order_id": ev.OrderID, "to": ev.To, "total": ev.Total}).Info("Simulated order confirmation email")
	default:
		log.WithField("routing_key", routingKey).Warn("Ignoring unknown event")
	}
	return nil
}
