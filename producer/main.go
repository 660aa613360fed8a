package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/xor-shift/rngkit/common"
	"github.com/xor-shift/rngkit/session"
)

var app *iris.Application

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("loading dotenv failed: %s", err)
	}

	app = iris.New()
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, session.ErrUnknownSession):
		return http.StatusNotFound
	case errors.Is(err, common.ErrUnknownKind):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrStopped):
		return http.StatusServiceUnavailable
	}

	return http.StatusInternalServerError
}

func main() {
	db, err := session.OpenDB(session.ConfigFromEnv())
	if err != nil {
		log.Fatalln(err)
	}

	defer db.Close()

	publisher, err := common.NewAMQPPublisher(os.Getenv("AMQP_URL"), common.DrawsExchange)
	if err != nil {
		log.Fatalln(err)
	}

	defer publisher.Close()

	manager := session.NewManager(session.NewMySQLStore(db), publisher, session.WithLogger(app.Logger()))
	manager.Start(1)

	defer manager.Stop()

	// the body is optional; an empty one opens a xoshiro256ss session
	app.Post("/session", func(ctx iris.Context) {
		body, err := ctx.GetBody()
		if err != nil {
			app.Logger().Warnf("/session error (body): %s", err)
			ctx.StatusCode(http.StatusBadRequest)
			return
		}

		request := map[string]interface{}{}
		if len(body) != 0 {
			if err = json.Unmarshal(body, &request); err != nil {
				ctx.StatusCode(http.StatusBadRequest)
				_, _ = ctx.Text("bad body: %s", err)
				return
			}
		}

		desc, err := common.DecodeDescriptor(request)
		if err != nil {
			ctx.StatusCode(http.StatusBadRequest)
			_, _ = ctx.Text("bad descriptor: %s", err)
			return
		}

		id, initial, err := manager.Open(ctx.Request().Context(), desc.Kind)
		if err != nil {
			app.Logger().Warnf("opening a %s session failed: %s", desc.Kind, err)
			ctx.StatusCode(statusForError(err))
			return
		}

		_, _ = ctx.JSON(iris.Map{"id": id, "generator": initial})
	})

	app.Get("/session/{id:uint64}", func(ctx iris.Context) {
		s, err := manager.Session(uint(ctx.Params().GetUint64Default("id", 0)))
		if err != nil {
			ctx.StatusCode(statusForError(err))
			return
		}

		_, _ = ctx.JSON(s.Status())
	})

	app.Post("/session/{id:uint64}/draws", func(ctx iris.Context) {
		id := uint(ctx.Params().GetUint64Default("id", 0))

		var draws []common.Draw
		if err := ctx.ReadJSON(&draws); err != nil {
			ctx.StatusCode(http.StatusBadRequest)
			_, _ = ctx.Text("bad draws: %s", err)
			return
		}

		if err := manager.Submit(common.DrawBatch{SessionID: id, Draws: draws}); err != nil {
			app.Logger().Warnf("/session/%d/draws error (Submit): %s", id, err)
			ctx.StatusCode(statusForError(err))
			return
		}

		ctx.StatusCode(http.StatusAccepted)
	})

	port := os.Getenv("RNGD_PORT")
	if port == "" {
		port = "8080"
	}

	if err := app.Listen(fmt.Sprintf(":%s", port)); err != nil {
		log.Fatalln(err)
	}
}
