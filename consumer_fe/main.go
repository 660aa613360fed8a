package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/streadway/amqp"
	"github.com/xor-shift/rngkit/common"
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("loading dotenv failed: %s", err)
	}
}

func main() {
	var err error

	var consumer *common.AMQPConsumer
	var app *iris.Application

	var mu sync.RWMutex
	lastBatches := map[uint]common.DrawBatch{}

	if consumer, err = common.NewAMQPConsumer(
		os.Getenv("AMQP_URL"),
		common.DrawsExchange,
		"consumer_fe_queue",
		"consumer_fe_consumer",
		func(delivery amqp.Delivery) error {
			batch, err := common.ParseDrawBatch(&delivery)
			if err != nil {
				return fmt.Errorf("decoding a batch with gob: %w", err)
			}

			if len(batch.Draws) != 0 {
				last := batch.Draws[len(batch.Draws)-1]
				log.Printf("session %d (%s): %d draws, last %d @ %d", batch.SessionID, batch.Kind, len(batch.Draws), last.Word, last.Sequence)
			}

			mu.Lock()
			lastBatches[batch.SessionID] = batch
			mu.Unlock()

			return nil
		},
		func(err error) {
			log.Printf("error while consuming: %s", err)
		}); err != nil {
		log.Fatalln(err)
	}

	if err = consumer.Start(); err != nil {
		log.Fatalln(err)
	}

	app = iris.New()

	app.Get("/test", func(ctx iris.Context) {
		_, _ = ctx.Text("OK")
	})

	app.Get("/data", func(ctx iris.Context) {
		mu.RLock()
		defer mu.RUnlock()

		_, _ = ctx.JSON(lastBatches)
	})

	app.Get("/data/{id:uint64}", func(ctx iris.Context) {
		mu.RLock()
		defer mu.RUnlock()

		batch, ok := lastBatches[uint(ctx.Params().GetUint64Default("id", 0))]
		if !ok {
			ctx.StatusCode(http.StatusNotFound)
			return
		}

		_, _ = ctx.JSON(batch)
	})

	if err = app.Listen(fmt.Sprintf(":%s", os.Getenv("CONSUMER_FE_PORT"))); err != nil {
		log.Fatalln(err)
	}
}
