package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vidyakosh-erp/vidyakosh-erp/internal/feestructure"
	"github.com/vidyakosh-erp/vidyakosh-erp/internal/roster"
	"github.com/vidyakosh-erp/vidyakosh-erp/internal/shared"
)

// RosterPort supplies the active student population.
type RosterPort interface {
	ListActiveStudents(ctx context.Context, academicYearID int64) ([]roster.Student, error)
}

// StructuresPort resolves base fee components and transport add-ons.
type StructuresPort interface {
	Resolve(ctx context.Context, classID, academicYearID int64) (feestructure.Resolved, error)
	RouteMonthlyFee(ctx context.Context, routeID *int64) (int64, error)
}

// ConcessionsPort computes the reduction for a student on a date.
type ConcessionsPort interface {
	ReductionFor(ctx context.Context, studentID int64, gross int64, asOf time.Time) (int64, error)
}

// RepositoryPort defines charge persistence used by the generator.
type RepositoryPort interface {
	BilledStudentIDs(ctx context.Context, academicYearID int64, period shared.Period) (map[int64]struct{}, error)
	Insert(ctx context.Context, c MonthlyCharge) (int64, bool, error)
	Get(ctx context.Context, id int64) (*MonthlyCharge, error)
	List(ctx context.Context, req ListChargesRequest) ([]MonthlyCharge, error)
}

// Notifier hands a freshly created charge to the messaging pipeline.
// Best effort: failures are logged by the generator, never propagated.
type Notifier interface {
	ChargeCreated(ctx context.Context, student roster.Student, charge MonthlyCharge) error
}

// AuditPort records generation runs.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Generator bills the active roster for one period. Safe to re-run:
// students already billed for the period are skipped, so an interrupted
// batch resumes by simply invoking it again.
type Generator struct {
	logger        *slog.Logger
	roster        RosterPort
	structures    StructuresPort
	concessions   ConcessionsPort
	repo          RepositoryPort
	notifier      Notifier
	audit         AuditPort
	defaultDueDay int
}

// NewGenerator builds Generator instance. notifier and audit may be nil.
func NewGenerator(logger *slog.Logger, rosterPort RosterPort, structures StructuresPort, concessions ConcessionsPort, repo RepositoryPort, notifier Notifier, audit AuditPort, defaultDueDay int) *Generator {
	return &Generator{
		logger:        logger,
		roster:        rosterPort,
		structures:    structures,
		concessions:   concessions,
		repo:          repo,
		notifier:      notifier,
		audit:         audit,
		defaultDueDay: defaultDueDay,
	}
}

// Generate creates one charge per unbilled active student for the period.
// One misconfigured class never blocks the rest of the school: per-student
// failures land in the summary's error list and the batch continues.
func (g *Generator) Generate(ctx context.Context, req GenerateRequest, actorID int64) (*GenerationSummary, error) {
	period := shared.Period{Month: req.Month, Year: req.Year}
	if err := period.Validate(); err != nil {
		return nil, err
	}
	dueDay := req.DueDay
	if dueDay == 0 {
		dueDay = g.defaultDueDay
	}

	students, err := g.roster.ListActiveStudents(ctx, req.AcademicYearID)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	billed, err := g.repo.BilledStudentIDs(ctx, req.AcademicYearID, period)
	if err != nil {
		return nil, err
	}

	summary := &GenerationSummary{RunID: uuid.NewString()}
	firstDay := period.FirstDay()
	dueDate := period.DueDate(dueDay)
	log := g.logger.With(
		slog.String("run_id", summary.RunID),
		slog.String("period", period.Label()),
		slog.Int64("academic_year_id", req.AcademicYearID),
	)
	log.Info("fee generation started", slog.Int("roster_size", len(students)))

	for _, student := range students {
		if _, ok := billed[student.ID]; ok {
			summary.SkippedCount++
			continue
		}

		charge, err := g.buildCharge(ctx, student, req.AcademicYearID, period, firstDay, dueDate)
		if err != nil {
			summary.Errors = append(summary.Errors, GenerationError{StudentID: student.ID, Reason: err.Error()})
			log.Warn("student billing failed", slog.Int64("student_id", student.ID), slog.Any("error", err))
			continue
		}

		id, inserted, err := g.repo.Insert(ctx, charge)
		if err != nil {
			summary.Errors = append(summary.Errors, GenerationError{StudentID: student.ID, Reason: err.Error()})
			log.Error("charge insert failed", slog.Int64("student_id", student.ID), slog.Any("error", err))
			continue
		}
		if !inserted {
			// Lost a race with a concurrent run; the other row stands.
			summary.SkippedCount++
			continue
		}
		charge.ID = id
		summary.CreatedCount++
		g.notify(ctx, log, student, charge)
	}

	log.Info("fee generation finished",
		slog.Int("created", summary.CreatedCount),
		slog.Int("skipped", summary.SkippedCount),
		slog.Int("errors", len(summary.Errors)))
	g.recordAudit(ctx, log, actorID, req, summary)
	return summary, nil
}

func (g *Generator) buildCharge(ctx context.Context, student roster.Student, academicYearID int64, period shared.Period, firstDay, dueDate time.Time) (MonthlyCharge, error) {
	resolved, err := g.structures.Resolve(ctx, student.ClassID, academicYearID)
	if err != nil {
		if errors.Is(err, shared.ErrNotConfigured) {
			return MonthlyCharge{}, fmt.Errorf("class %d: %w", student.ClassID, shared.ErrNotConfigured)
		}
		return MonthlyCharge{}, err
	}

	hostel := int64(0)
	if student.HasHostel {
		hostel = resolved.HostelAmount
	}
	transport, err := g.structures.RouteMonthlyFee(ctx, student.TransportRouteID)
	if err != nil {
		return MonthlyCharge{}, err
	}

	gross := resolved.TuitionAmount + hostel + transport
	reduction, err := g.concessions.ReductionFor(ctx, student.ID, gross, firstDay)
	if err != nil {
		return MonthlyCharge{}, err
	}
	total := gross - reduction
	if total < 0 {
		total = 0
	}

	return MonthlyCharge{
		StudentID:        student.ID,
		AcademicYearID:   academicYearID,
		Month:            period.Month,
		Year:             period.Year,
		TuitionAmount:    resolved.TuitionAmount,
		HostelAmount:     hostel,
		TransportAmount:  transport,
		ConcessionAmount: reduction,
		TotalAmount:      total,
		AmountPaid:       0,
		AmountPending:    total,
		Status:           StatusPending,
		DueDate:          dueDate,
		GeneratedAt:      time.Now(),
	}, nil
}

// notify is fire-and-forget: a messaging failure never fails generation.
func (g *Generator) notify(ctx context.Context, log *slog.Logger, student roster.Student, charge MonthlyCharge) {
	if g.notifier == nil {
		return
	}
	if err := g.notifier.ChargeCreated(ctx, student, charge); err != nil {
		log.Warn("charge notification failed",
			slog.Int64("student_id", student.ID),
			slog.Int64("charge_id", charge.ID),
			slog.Any("error", err))
	}
}

func (g *Generator) recordAudit(ctx context.Context, log *slog.Logger, actorID int64, req GenerateRequest, summary *GenerationSummary) {
	if g.audit == nil {
		return
	}
	err := g.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   "fees.generate",
		Entity:   "generation_run",
		EntityID: summary.RunID,
		Meta: map[string]any{
			"academic_year_id": req.AcademicYearID,
			"month":            req.Month,
			"year":             req.Year,
			"created":          summary.CreatedCount,
			"skipped":          summary.SkippedCount,
			"errors":           len(summary.Errors),
		},
	})
	if err != nil {
		log.Warn("audit record failed", slog.Any("error", err))
	}
}

// GetCharge returns one charge.
func (g *Generator) GetCharge(ctx context.Context, id int64) (*MonthlyCharge, error) {
	return g.repo.Get(ctx, id)
}

// ListCharges returns charges matching the filters.
func (g *Generator) ListCharges(ctx context.Context, req ListChargesRequest) ([]MonthlyCharge, error) {
	return g.repo.List(ctx, req)
}
