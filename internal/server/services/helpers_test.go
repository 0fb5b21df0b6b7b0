package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/gophchat/internal/server/events"
)

type fakeUploader struct {
	mu       sync.Mutex
	payloads []string
	url      string
	err      error
}

func (f *fakeUploader) Upload(_ context.Context, payload string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)
	if f.err != nil {
		return "", f.err
	}
	if f.url != "" {
		return f.url, nil
	}
	return "https://img.test/" + payload, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, e events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, e)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

// failingHasher lets tests drive hasher errors.
type failingHasher struct{}

func (failingHasher) Hash(string) (string, error)   { return "", errors.New("rng failure") }
func (failingHasher) Compare(string, string) error { return errors.New("corrupt hash") }
