// Package fetch retrieves financial data for every selected (company, year)
// pair and assembles the per-company result tree of an analysis.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/finrasyo/finrasyo-server/internal/models"
	"github.com/finrasyo/finrasyo-server/internal/ratio"
	"github.com/sirupsen/logrus"
)

// ErrUnavailable marks a failure of the data source as a whole rather than of
// a single pair. It aborts the whole run.
var ErrUnavailable = errors.New("financial data source unavailable")

// Source retrieves the balance sheet of one company for one fiscal year
type Source interface {
	FetchFinancials(ctx context.Context, code string, year int) (*models.FinancialData, error)
}

// CompanyRef names a company to analyse
type CompanyRef struct {
	Code string
	Name string
}

// Request is the selection an analysis runs over
type Request struct {
	Companies []CompanyRef
	Years     []int
	Ratios    []ratio.Kind
}

// Validate rejects empty selections before any retrieval starts.
func (r Request) Validate() error {
	if len(r.Companies) == 0 {
		return models.NewValidationError("companies", "select at least one company")
	}
	for _, c := range r.Companies {
		if strings.TrimSpace(c.Code) == "" {
			return models.NewValidationError("companies", "company code is required")
		}
	}
	if len(r.Years) == 0 {
		return models.NewValidationError("years", "select at least one year")
	}
	if len(r.Ratios) == 0 {
		return models.NewValidationError("ratios", "select at least one ratio")
	}
	return nil
}

// Pairs returns the number of retrievals the request needs.
func (r Request) Pairs() int {
	return len(r.Companies) * len(r.Years)
}

// ProgressFunc receives the completed fraction after every pair, in (0, 1].
type ProgressFunc func(fraction float64)

// Orchestrator runs the retrievals of a Request one after another
type Orchestrator struct {
	source Source
	log    logrus.FieldLogger
}

// NewOrchestrator returns an Orchestrator reading from source.
func NewOrchestrator(source Source, log logrus.FieldLogger) *Orchestrator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Orchestrator{source: source, log: log}
}

// Run fetches every (company, year) pair in order. A failed pair is recorded
// in place and does not stop its siblings. A catastrophic failure stops the
// run and is returned alone, without partial results.
func (o *Orchestrator) Run(ctx context.Context, req Request, progress ProgressFunc) (models.AnalysisResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	total := req.Pairs()
	done := 0
	result := make(models.AnalysisResult, len(req.Companies))

	for _, company := range req.Companies {
		entry, ok := result[company.Code]
		if !ok {
			entry = models.CompanyAnalysis{Name: company.Name, Years: make(map[int]models.AnalysisOutcome, len(req.Years))}
		}

		for _, year := range req.Years {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("analysis aborted: %w", err)
			}

			outcome, err := o.fetchPair(ctx, company.Code, year, req.Ratios)
			if err != nil {
				o.log.WithError(err).WithFields(logrus.Fields{
					"code": company.Code,
					"year": year,
				}).Error("analysis aborted")
				return nil, err
			}
			entry.Years[year] = outcome

			done++
			if progress != nil {
				progress(float64(done) / float64(total))
			}
		}

		result[company.Code] = entry
	}

	return result, nil
}

// fetchPair returns a catastrophic error only; pair-level failures become an
// outcome carrying the message.
func (o *Orchestrator) fetchPair(ctx context.Context, code string, year int, kinds []ratio.Kind) (outcome models.AnalysisOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: source panicked: %v", ErrUnavailable, r)
		}
	}()

	data, fetchErr := o.source.FetchFinancials(ctx, code, year)
	if fetchErr != nil {
		if isCatastrophic(fetchErr) {
			return models.AnalysisOutcome{}, fetchErr
		}
		o.log.WithError(fetchErr).WithFields(logrus.Fields{
			"code": code,
			"year": year,
		}).Warn("financial data fetch failed")
		return models.AnalysisOutcome{Error: fetchErr.Error()}, nil
	}
	if data == nil {
		return models.AnalysisOutcome{Error: fmt.Sprintf("no financial data for %s in %d", code, year)}, nil
	}

	r, ratioErr := ratio.Compute(data.BalanceSheet)
	if ratioErr != nil {
		return models.AnalysisOutcome{Error: ratioErr.Error()}, nil
	}

	return models.AnalysisOutcome{Data: data, Ratios: r.Select(kinds)}, nil
}

func isCatastrophic(err error) bool {
	return errors.Is(err, ErrUnavailable) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
