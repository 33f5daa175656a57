package repositories

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/mongo"

	"authprobe/internal/utils"
)

// trackQuery starts a query timer. Call the returned func with a pointer to the
// query's error once it finishes. ErrNoDocuments is not counted as a failure.
func trackQuery(repository, queryType string) func(errp *error) {
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))

	return func(errp *error) {
		if errp != nil && *errp != nil && !errors.Is(*errp, mongo.ErrNoDocuments) {
			status = "error"
			utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		}
		timer.ObserveDuration()
	}
}
