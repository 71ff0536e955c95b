package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"

	"vetrina/internal/live"
	"vetrina/internal/services"
)

const keepAliveInterval = 15 * time.Second

// writeEvent writes one snapshot as a server-sent event. A failed snapshot is
// sent as an "error" event; the stream stays open for the next one.
func writeEvent[T any](w *bufio.Writer, snap live.Snapshot[T], render func([]T) interface{}) error {
	event := "snapshot"
	var payload interface{}
	if snap.Err != nil {
		event = "error"
		payload = fiber.Map{"message": "Could not load data", "error": snap.Err.Error()}
	} else {
		payload = render(snap.Records)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "encode event")
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return w.Flush()
}

// stream serves a feed as server-sent events until the client goes away or
// the request's user context is cancelled. render turns each snapshot into the
// response payload.
func stream[T any](c *fiber.Ctx, feed *live.Feed[T], render func([]T) interface{}) error {
	ctx, cancel := context.WithCancel(c.UserContext())
	sub, err := feed.Subscribe(ctx, nil)
	if err != nil {
		cancel()
		return respondError(c, "Could not open stream", errors.Wrap(services.ErrUnavailable, err.Error()))
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	path := c.Path()
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		log.WithField("path", path).Debug("Stream opened")

		keepAlive := time.NewTicker(keepAliveInterval)
		defer keepAlive.Stop()
		for {
			select {
			case snap, ok := <-sub.C():
				if !ok {
					return
				}
				if err := writeEvent(w, snap, render); err != nil {
					log.WithError(err).WithField("path", path).Debug("Stream closed")
					return
				}
			case <-keepAlive.C:
				if _, err := w.WriteString(": keep-alive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					log.WithField("path", path).Debug("Stream closed")
					return
				}
			}
		}
	}))
	return nil
}
