package di

import (
	"dogwalking/transport/event"
	"dogwalking/transport/http"
	"dogwalking/transport/scheduler"
)

type App struct {
	HTTP      *http.HTTP
	Scheduler *scheduler.Scheduler
	Consumer  *event.Consumer
}
