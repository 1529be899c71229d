package pubsub

import (
	"context"
	"sync"

	"github.com/0xbe1/liquidated/metrics"
	"github.com/lithammer/shortuuid/v3"
)

const defaultBuffer = 16

// Producer publishes messages for a topic until ctx is cancelled.
type Producer[T any] func(ctx context.Context, publish func(T))

// PubSub fans messages of a topic out to its subscribers. A topic's producer
// runs while the topic has at least one subscriber.
type PubSub[T any] struct {
	mu     sync.Mutex
	topics map[string]*topic[T]
	buffer int
}

type topic[T any] struct {
	subs    map[string]chan T
	cancel  context.CancelFunc
	last    T
	hasLast bool
}

func New[T any](buffer int) *PubSub[T] {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &PubSub[T]{
		topics: map[string]*topic[T]{},
		buffer: buffer,
	}
}

// Subscribe attaches to key, starting producer if the topic is idle. The
// returned channel receives the last published message first, if any, and is
// closed once ctx is done.
func (p *PubSub[T]) Subscribe(ctx context.Context, key string, producer Producer[T]) <-chan T {
	id := shortuuid.New()
	ch := make(chan T, p.buffer)

	p.mu.Lock()
	t, ok := p.topics[key]
	if !ok {
		topicCtx, cancel := context.WithCancel(context.Background())
		t = &topic[T]{subs: map[string]chan T{}, cancel: cancel}
		p.topics[key] = t
		metrics.TopicStarted()
		go producer(topicCtx, func(msg T) { p.publish(key, t, msg) })
	}
	if t.hasLast {
		ch <- t.last
	}
	t.subs[id] = ch
	p.mu.Unlock()
	metrics.SubscriberAdded()

	go func() {
		<-ctx.Done()
		p.unsubscribe(key, id)
	}()
	return ch
}

func (p *PubSub[T]) publish(key string, t *topic[T], msg T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	// the topic may have been torn down and recreated while the producer was working
	if p.topics[key] != t {
		return
	}
	t.last = msg
	t.hasLast = true
	for _, ch := range t.subs {
		select {
		case ch <- msg:
		default:
			metrics.MessageDropped()
		}
	}
}

func (p *PubSub[T]) unsubscribe(key, id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.topics[key]
	if !ok {
		return
	}
	ch, ok := t.subs[id]
	if !ok {
		return
	}
	delete(t.subs, id)
	close(ch)
	metrics.SubscriberRemoved()
	if len(t.subs) == 0 {
		t.cancel()
		delete(p.topics, key)
		metrics.TopicStopped()
	}
}

// Topics returns the number of topics with a running producer.
func (p *PubSub[T]) Topics() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.topics)
}

// Subscribers returns the number of subscribers of key.
func (p *PubSub[T]) Subscribers(key string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.topics[key]
	if !ok {
		return 0
	}
	return len(t.subs)
}

// Close cancels every producer and closes every subscriber channel.
func (p *PubSub[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for key, t := range p.topics {
		t.cancel()
		for id, ch := range t.subs {
			close(ch)
			delete(t.subs, id)
			metrics.SubscriberRemoved()
		}
		delete(p.topics, key)
		metrics.TopicStopped()
	}
}
