// Command pongohive wires a bollywood ActorSystem to an HTTP/WebSocket
// front end, grounded on the teacher's main.go.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/net/websocket"

	"github.com/lguibr/pongohive/bollywood"
	"github.com/lguibr/pongohive/config"
	"github.com/lguibr/pongohive/roomhive"
	"github.com/lguibr/pongohive/server"
)

func main() {
	cfg := config.DefaultConfig()
	fmt.Printf("Configuration loaded. Port=%s RoomHeartbeat=%v\n", cfg.Port, cfg.RoomHeartbeatPeriod)

	system := bollywood.NewActorSystem(
		bollywood.WithLogger(bollywood.FuncLogger(func(format string, args ...interface{}) {
			fmt.Printf(format+"\n", args...)
		})),
		bollywood.WithDeadLetterCapacity(cfg.DeadLetterCapacity),
		bollywood.WithDefaultMailbox(cfg.MailboxFactory()),
		bollywood.WithShutdownTimeout(cfg.ShutdownTimeout),
	)
	fmt.Println("ActorSystem created.")

	if err := system.RegisterProp(roomhive.DirectoryActorPropID, bollywood.NewProps(
		roomhive.NewDirectoryActorProducer(cfg.RoomHeartbeatPeriod),
	)); err != nil {
		panic(fmt.Sprintf("failed to register DirectoryActor props: %v", err))
	}

	directoryPID, err := system.ActorOf(bollywood.RootPath().Child("directory"), roomhive.DirectoryActorPropID)
	if err != nil {
		panic(fmt.Sprintf("failed to spawn DirectoryActor: %v", err))
	}
	fmt.Printf("DirectoryActor spawned at %s\n", directoryPID)

	srv := server.New(system, directoryPID, cfg.AskTimeout)

	mux := http.NewServeMux()
	mux.HandleFunc("/", server.HandleHealthCheck())
	mux.HandleFunc("/health-check/", server.HandleHealthCheck())
	mux.HandleFunc("/stats/", srv.HandleStats())
	mux.Handle("/subscribe/", websocket.Handler(srv.HandleSubscribe()))

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	listenAddr := ":" + port
	fmt.Printf("Server starting on %s\n", listenAddr)

	if err := http.ListenAndServe(listenAddr, mux); err != nil {
		fmt.Println("Server stopped:", err)
	}

	fmt.Println("Shutting down ActorSystem...")
	system.ShutdownAwait(cfg.ShutdownTimeout + time.Second)
	fmt.Println("Shutdown complete.")
}
