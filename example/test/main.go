package main

import (
	"context"
	"fmt"
	"time"

	pubsub "github.com/jonoton/go-pubsubtrie"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment() // Debug logging
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ps := pubsub.NewConcurrent(true, pubsub.WithLogger(logger))

	// Sub1 is slow and allowed to drop, sub2 blocks up to a timeout.
	sub1 := pubsub.NewAsyncSubscriber(pubsub.DeliveryConfig{BufferSize: 1, AllowDropping: true}, logger)
	sub2 := pubsub.NewAsyncSubscriber(pubsub.DeliveryConfig{BufferSize: 2, PublishTimeout: 200 * time.Millisecond}, logger)
	defer sub1.Close()
	defer sub2.Close()

	h1 := pubsub.NewHandle(sub1)
	h2 := pubsub.NewHandle(sub2)

	// Sub3 is called inline on the publishing goroutine.
	h3 := pubsub.NewHandle(pubsub.SubscriberFunc(func(p []byte) {
		fmt.Printf("(%s) received inline: '%s'\n", "sub3", p)
	}))

	for _, filter := range []string{"news/+", "news/#/extra", "sport#"} {
		if err := pubsub.ValidateFilter(filter); err != nil {
			fmt.Printf("filter %q rejected: %v\n", filter, err)
		}
	}

	ps.Subscribe(h1, "sports/#")
	ps.Subscribe(h2, "news/+")
	ps.Subscribe(h3, "news/#")

	go sub1.ReadMessages(func(p []byte) {
		fmt.Printf("(%s) received: '%s'\n", "sub1", p)
		time.Sleep(300 * time.Millisecond) // Simulate slow processing
	})
	go sub2.ReadMessages(func(p []byte) {
		fmt.Printf("(%s) received: '%s'\n", "sub2", p)
	})

	fmt.Println("\n--- Publishing to 'news/...' ---")
	ps.Publish("news/world", []byte("Breaking News: GoLang is awesome!"))
	ps.Publish("news/markets", []byte("Market Update 1"))
	ps.Publish("news", []byte("News index")) // only news/# matches the bare topic
	fmt.Println("Main: Finished publishing to 'news'.")

	fmt.Println("\n--- Publishing to 'sports/...' (dropping allowed) ---")
	for i := 1; i <= 5; i++ {
		ps.Publish(fmt.Sprintf("sports/game/%d", i), []byte(fmt.Sprintf("Game Score %d", i)))
	}
	fmt.Println("Main: Finished publishing to 'sports'.")

	fmt.Println("\n--- Request / reply ---")
	responder := pubsub.NewHandle(pubsub.SubscriberFunc(func(p []byte) {
		ps.Publish("time/reply", []byte(time.Now().Format(time.RFC3339)))
	}))
	ps.Subscribe(responder, "time/request")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	reply, err := ps.Request(ctx, "time/request", "time/reply", nil)
	if err != nil {
		fmt.Println("Request failed:", err)
	} else {
		fmt.Printf("Request reply: '%s'\n", reply)
	}

	fmt.Println("\n--- Unsubscribing sub2 ---")
	ps.UnsubscribeAll(h2)
	ps.Publish("news/world", []byte("News after unsubscribe"))

	time.Sleep(2 * time.Second) // Give time for processing

	fmt.Printf("\nsub1 dropped %d payloads, stats: %+v\n", sub1.Dropped(), ps.Stats())
	fmt.Println("--- Main goroutine finishing ---")
}
