package container

import (
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/samber/do"
	"github.com/serroba/shortlink/internal/events"
	"github.com/serroba/shortlink/internal/messaging"
	"go.uber.org/zap"
)

const consumerGroupName = "shortlink"

// PublisherGroupPackage provides typed publish functions for link events.
// With events disabled they discard, and no Redis stream is opened.
func PublisherGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		handle, err := do.Invoke[*RedisHandle](i)
		if err != nil {
			return nil, err
		}

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client:     handle.Client,
			Marshaller: redisstream.DefaultMarshallerUnmarshaller{},
		}, messaging.NewLogger(do.MustInvoke[*zap.Logger](i)))
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(i, func(i *do.Injector) (messaging.Publish[events.LinkCreated], error) {
		if !do.MustInvoke[*Options](i).EventsEnabled() {
			return messaging.Discard[events.LinkCreated](), nil
		}

		group, err := do.Invoke[*messaging.PublisherGroup](i)
		if err != nil {
			return nil, err
		}

		return messaging.NewPublishFunc[events.LinkCreated](group.Publisher(), events.TopicLinkCreated), nil
	})

	do.Provide(i, func(i *do.Injector) (messaging.Publish[events.GenerationExhausted], error) {
		if !do.MustInvoke[*Options](i).EventsEnabled() {
			return messaging.Discard[events.GenerationExhausted](), nil
		}

		group, err := do.Invoke[*messaging.PublisherGroup](i)
		if err != nil {
			return nil, err
		}

		return messaging.NewPublishFunc[events.GenerationExhausted](group.Publisher(), events.TopicGenerationExhausted), nil
	})
}

// ConsumerGroupPackage provides the consumer group running the cache warmer
// and the capacity monitor.
func ConsumerGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		handle, err := do.Invoke[*RedisHandle](i)
		if err != nil {
			return nil, err
		}

		cache, err := do.Invoke[LookupCache](i)
		if err != nil {
			return nil, err
		}

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        handle.Client,
			Unmarshaller:  redisstream.DefaultMarshallerUnmarshaller{},
			ConsumerGroup: consumerGroupName,
		}, messaging.NewLogger(logger))
		if err != nil {
			return nil, err
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(
			subscriber,
			events.TopicLinkCreated,
			events.NewCacheWarmer(cache, opts.CacheTTL(), logger),
			logger,
		))
		group.Add(messaging.NewConsumer(
			subscriber,
			events.TopicGenerationExhausted,
			events.NewCapacityMonitor(logger),
			logger,
		))

		return group, nil
	})
}
