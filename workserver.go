// Copyright 2025 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2025 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
//   This file is part of MDISP.
//
//  MDISP is free software: you can redistribute it and/or modify
//  it under the terms of the GNU General Public License as published by
//  the Free Software Foundation, either version 3 of the License, or
//  (at your option) any later version.
//
//  MDISP is distributed in the hope that it will be useful,
//  but WITHOUT ANY WARRANTY; without even the implied warranty of
//  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//  GNU General Public License for more details.
//
//  You should have received a copy of the GNU General Public License
//  along with MDISP.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"fmt"
	"mdisp/cnf"
	"mdisp/monitoring"
	"mdisp/rdb"
	"mdisp/results"
	"mdisp/tagger"
	"mdisp/worker"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func getWorkerID() (workerID string) {
	workerID = getEnv("WORKER_ID")
	if workerID == "" {
		workerID = strconv.Itoa(os.Getpid())
	}
	return
}

// -------

type NullLogger struct{}

func (n *NullLogger) Log(rec results.JobLog) {}

//

type NullStatusWriter struct{}

func (n *NullStatusWriter) Start(ctx context.Context) {}

func (n *NullStatusWriter) Stop(ctx context.Context) error { return nil }

func (n *NullStatusWriter) Write(rec results.JobLog) {}

// -------

// workerStatusServer is a small HTTP server exposing job statistics
// of a single worker process.
type workerStatusServer struct {
	server   *http.Server
	conf     *monitoring.Conf
	location *time.Location
	actions  *monitoring.Actions
}

func (wss *workerStatusServer) Start(ctx context.Context) {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.GET("/workers-load", wss.actions.WorkersLoad)
	engine.GET("/workers-load/:workerId", wss.actions.SingleWorkerLoad)
	engine.GET("/recent-jobs", wss.actions.RecentRecords)

	addr := fmt.Sprintf("%s:%d", wss.conf.ListenAddress, wss.conf.ListenPort)
	log.Info().Msgf("starting worker status server at %s", addr)
	wss.server = &http.Server{
		Handler: engine,
		Addr:    addr,
	}
	go func() {
		if err := wss.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("worker status server error")
		}
	}()
}

func (wss *workerStatusServer) Stop(ctx context.Context) error {
	log.Warn().Msg("shutting down worker status server")
	return wss.server.Shutdown(ctx)
}

// -------

func runWorker(conf *cnf.Conf) {
	workerID := getWorkerID()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	radapter := rdb.NewAdapter(ctx, conf.Redis)
	err := radapter.TestConnection(redisConnectionTestTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	var statusWriter monitoring.StatusWriter = &NullStatusWriter{}
	if conf.Monitoring != nil && conf.Monitoring.DB != nil {
		statusWriter, err = monitoring.NewTimescaleDBWriter(
			ctx, *conf.Monitoring.DB, conf.TimezoneLocation())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize status writer")
		}
	}
	jobLogger := monitoring.NewWorkerJobLogger(statusWriter, conf.TimezoneLocation())

	tagg := tagger.NewRemoteTagger(conf.Tagger)

	ch := radapter.Subscribe()
	wrk := worker.NewWorker(
		workerID, radapter, conf.CorporaSetup, tagg, ch, jobLogger)

	services := []service{statusWriter, jobLogger, wrk}
	if conf.Monitoring != nil && conf.Monitoring.ListenPort > 0 {
		services = append(services, &workerStatusServer{
			conf:     conf.Monitoring,
			location: conf.TimezoneLocation(),
			actions:  monitoring.NewActions(jobLogger, conf.TimezoneLocation()),
		})
	}
	for _, m := range services {
		m.Start(ctx)
	}
	<-ctx.Done()
	log.Warn().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	for _, s := range services {
		wg.Add(1)
		go func(srv service) {
			defer wg.Done()
			if err := srv.Stop(shutdownCtx); err != nil {
				log.Error().Err(err).Type("service", srv).Msg("Error shutting down service")
			}
		}(s)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info().Msg("Graceful shutdown completed")
	case <-shutdownCtx.Done():
		log.Warn().Msg("Shutdown timed out")
	}
}
