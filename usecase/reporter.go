package usecase

import (
	"crowdfund/domain"
	"crowdfund/interface/exporter"
	"errors"
	"log"
)

// Report logs the full failure detail and returns the generic OperationFailed
// error callers see. The cause stays reachable through errors.Is/As.
func Report(op string, err error) error {
	if err == nil {
		return nil
	}

	var reported *domain.Error
	if errors.As(err, &reported) && reported.Kind == domain.KindOperationFailed {
		return err
	}

	kind := domain.KindOf(err)
	exporter.IncErrorCount(kind.String())
	log.Printf("🔴 %v [%v] - %v\n", op, kind, err.Error())

	return domain.NewError(domain.KindOperationFailed, op, err)
}
