package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/streadway/amqp"
	"github.com/xor-shift/rngkit/common"
	"github.com/xor-shift/rngkit/session"
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("loading dotenv failed: %s", err)
	}
}

func main() {
	db, err := session.OpenDB(session.ConfigFromEnv())
	if err != nil {
		log.Fatalln(err)
	}

	defer db.Close()

	consumer, err := common.NewAMQPConsumer(
		os.Getenv("AMQP_URL"),
		common.DrawsExchange,
		"draws_queue_db",
		"consumer_db_consumer",
		func(delivery amqp.Delivery) error {
			batch, err := common.ParseDrawBatch(&delivery)
			if err != nil {
				return err
			}

			return session.InsertDraws(context.Background(), db, batch)
		},
		func(err error) {
			log.Printf("failed writing a batch to the db: %s", err)
		})
	if err != nil {
		log.Fatalf("failed to set up the amqp consumer: %s", err)
	}

	defer consumer.Close()

	if err = consumer.Start(); err != nil {
		log.Fatalf("failed to start consuming: %s", err)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	<-interrupt

	if err = consumer.Stop(); err != nil {
		log.Printf("failed to cancel the consumer: %s", err)
	}

	consumer.Wait()
}
