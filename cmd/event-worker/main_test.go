package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"dish-recommendations/internal/domain"
)

type scriptedSource struct {
	steps  []func() (domain.RecommendationEvent, error)
	cancel context.CancelFunc
}

func (s *scriptedSource) Pop(context.Context, time.Duration) (domain.RecommendationEvent, error) {
	if len(s.steps) == 0 {
		s.cancel()
		return domain.RecommendationEvent{}, context.Canceled
	}
	step := s.steps[0]
	s.steps = s.steps[1:]
	return step()
}

func TestEventWorkerRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var buf bytes.Buffer
	src := &scriptedSource{cancel: cancel, steps: []func() (domain.RecommendationEvent, error){
		func() (domain.RecommendationEvent, error) { return domain.RecommendationEvent{}, redis.Nil },
		func() (domain.RecommendationEvent, error) {
			return domain.RecommendationEvent{ID: "e1", Type: domain.RecommendationEventType, UserID: 1, DishID: 5}, nil
		},
		func() (domain.RecommendationEvent, error) { return domain.RecommendationEvent{}, nil },
	}}
	w := &eventWorker{log: zerolog.New(&buf), queue: src}

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("воркер не остановился после отмены контекста")
	}

	out := buf.String()
	if !strings.Contains(out, `"event_id":"e1"`) {
		t.Fatalf("событие не залогировано: %s", out)
	}
	if !strings.Contains(out, "без идентификатора") {
		t.Fatalf("пустое событие должно быть пропущено с предупреждением: %s", out)
	}
}

func TestEventWorkerStopsOnError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := &scriptedSource{cancel: cancel, steps: []func() (domain.RecommendationEvent, error){
		func() (domain.RecommendationEvent, error) {
			cancel()
			return domain.RecommendationEvent{}, errors.New("connection reset")
		},
	}}
	w := &eventWorker{log: zerolog.Nop(), queue: src}
	w.Run(ctx)
}
