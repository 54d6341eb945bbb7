/* Copyright 2025 Noteshare Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package metrics exposes operational counters of the server
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "noteshare_http_requests_total",
		Help: "Number of HTTP requests handled, by route and status code.",
	}, []string{"route", "method", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "noteshare_http_request_duration_seconds",
		Help:    "HTTP request latency, by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	// NotesCreated counts created notes
	NotesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "noteshare_notes_created_total",
		Help: "Number of notes created.",
	})

	// RatingsRecorded counts recorded ratings, including replacements
	RatingsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "noteshare_ratings_recorded_total",
		Help: "Number of ratings recorded.",
	})
)

// Handler returns the http handler exposing the metrics
func Handler() http.Handler {
	return promhttp.Handler()
}

// Instrument records request count and latency for the given route
func Instrument(route string, next http.Handler) http.Handler {
	handler := promhttp.InstrumentHandlerDuration(
		requestDuration.MustCurryWith(prometheus.Labels{"route": route}),
		next,
	)

	return promhttp.InstrumentHandlerCounter(
		requestsTotal.MustCurryWith(prometheus.Labels{"route": route}),
		handler,
	)
}
