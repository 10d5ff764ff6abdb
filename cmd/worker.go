package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/df07/go-distributed-raytracer/pkg/dispatch"
	"github.com/df07/go-distributed-raytracer/pkg/renderer"
	"github.com/urfave/cli"
)

// Serve render jobs until interrupted.
func ServeWorker(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	port := ctx.Int("port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port %d", port)
	}

	host := renderer.DescribeHost()
	displayHostInfo(host)

	listener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", ctx.String("bind"), port))
	if err != nil {
		return err
	}

	sigCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go func() {
		<-sigCtx.Done()
		listener.Close()
	}()

	worker := dispatch.NewWorker(ctx.Int("threads"))
	worker.ChunkSize = ctx.Int("chunk-size")
	err = worker.Serve(listener)
	logger.Noticef("served %d jobs", worker.Served())
	return err
}
