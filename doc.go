/*
Package pubsubtrie implements an in-memory publish-subscribe router that matches
hierarchical, slash-delimited topics against subscription filters with MQTT-style
wildcards.

Subscriptions are stored in a trie keyed by topic segment. Publishing walks the trie
once and calls every matching subscriber synchronously, in match order.

# Key Features

  - Wildcards: "+" matches exactly one segment and "#" matches one or more trailing
    segments. "sport/#" also matches the bare topic "sport", and "#" alone matches
    every topic. Wildcards only count when they make up a whole segment, so
    "sport#" is an ordinary literal.

  - Identity-Based Unsubscription: Subscribers are registered through a Handle. A
    handle's identity, not the subscriber's state, decides what UnsubscribeAll and
    Unsubscribe remove.

  - Match Cache: With caching enabled, the subscriber list for each exact published
    topic is remembered until the next Subscribe or Unsubscribe. Results are
    identical to running without the cache.

  - Concurrency Options: Broker itself is not synchronized. ConcurrentBroker guards it
    with a mutex and calls subscribers after releasing the lock; AsyncSubscriber
    moves delivery onto its own goroutine with a bounded buffer.

  - Observability: Operations are traced through a zap logger and counted with
    OpenTelemetry counters. Both default to no-ops.

# Usage Examples

Subscribing and publishing:

	b := pubsubtrie.New(true)

	scores := pubsubtrie.NewHandle(pubsubtrie.SubscriberFunc(func(p []byte) {
		fmt.Printf("score update: %s\n", p)
	}))

	b.Subscribe(scores, "sport/+/score")
	b.Subscribe(scores, "sport/tennis/#")

	b.Publish("sport/football/score", []byte("2-1")) // delivered once
	b.Publish("sport/tennis/score", []byte("6-4"))   // delivered twice, once per filter
	b.Publish("sport/football/teams", []byte("x"))   // not delivered

	b.Unsubscribe(scores, "sport/tennis/#")
	b.UnsubscribeAll(scores)

# Concurrent Use

	cb := pubsubtrie.NewConcurrent(true, pubsubtrie.WithLogger(logger))

	sub := pubsubtrie.NewAsyncSubscriber(pubsubtrie.DeliveryConfig{
		BufferSize:    32,
		AllowDropping: true,
	}, logger)
	defer sub.Close()

	cb.Subscribe(pubsubtrie.NewHandle(sub), "events/#")
	go sub.ReadMessages(func(p []byte) {
		// handle p
	})

# Configuration

Settings can be loaded with viper:

	v := viper.New()
	v.SetConfigFile("config.yaml")
	_ = v.ReadInConfig()

	cfg, err := pubsubtrie.LoadConfig(v, "pubsub")
	if err != nil {
		// Handle error
	}
	b := pubsubtrie.NewFromConfig(cfg)

# Topic Syntax

Topics are split on "/" with no normalization: "" is a single empty segment and
"/a" starts with an empty segment. The broker accepts any topic. ValidateFilter and
ValidateTopic apply stricter rules for callers that want to reject filters such as
"a/#/b" before subscribing.
*/
package pubsubtrie
