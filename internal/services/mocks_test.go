package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
)

type recordingPublisher struct {
	mu       sync.Mutex
	channels []string
	events   []Event
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return "", err
	}
	if attrs["type"] != event.Type {
		return "", errors.New("type attribute does not match payload")
	}
	p.channels = append(p.channels, channel)
	p.events = append(p.events, event)
	return "msg-1", nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type memoryPosters struct {
	objects      map[string][]byte
	contentTypes map[string]string
	putErr       error
}

func newMemoryPosters() *memoryPosters {
	return &memoryPosters{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (m *memoryPosters) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	if m.putErr != nil {
		return m.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = data
	m.contentTypes[key] = contentType
	return nil
}

func (m *memoryPosters) Get(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, errors.New("no such object")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memoryPosters) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}
