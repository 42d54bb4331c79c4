package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sped-tracker-api/internal/models"
	appErrors "github.com/noah-isme/sped-tracker-api/pkg/errors"
	"github.com/noah-isme/sped-tracker-api/pkg/export"
)

// ExportFormat identifies a rendered schedule format.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportPDF  ExportFormat = "pdf"
	ExportXLSX ExportFormat = "xlsx"
	ExportICS  ExportFormat = "ics"
)

var exportContentTypes = map[ExportFormat]string{
	ExportCSV:  "text/csv",
	ExportPDF:  "application/pdf",
	ExportXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	ExportICS:  "text/calendar",
}

var exportHeaders = []string{"Day", "Start", "End", "Minutes", "Student", "Subject", "Type"}

type scheduleFinder interface {
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
}

type scheduleEntryLister interface {
	ListEntriesBySchedule(ctx context.Context, scheduleID string) ([]models.ScheduleEntry, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type calendarRenderer interface {
	Render(name string, from, until time.Time, events []export.RecurringEvent) ([]byte, error)
}

// ExportResult is a rendered export ready to be sent as an attachment.
type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders a schedule's weekly sheet into downloadable files.
type ExportService struct {
	schedules scheduleFinder
	entries   scheduleEntryLister
	tabular   map[ExportFormat]datasetRenderer
	calendar  calendarRenderer
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewExportService constructs an ExportService with the default renderers.
func NewExportService(schedules scheduleFinder, entries scheduleEntryLister, metrics *MetricsService, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		schedules: schedules,
		entries:   entries,
		tabular: map[ExportFormat]datasetRenderer{
			ExportCSV:  export.NewCSVExporter(),
			ExportPDF:  export.NewPDFExporter(),
			ExportXLSX: export.NewXLSXExporter(),
		},
		calendar: export.NewICSExporter("-//sped-tracker//schedule//EN"),
		metrics:  metrics,
		logger:   logger,
	}
}

// Export renders the schedule in the requested format.
func (s *ExportService) Export(ctx context.Context, identity models.Identity, scheduleID string, format ExportFormat) (*ExportResult, error) {
	if err := requireStaff(identity); err != nil {
		return nil, err
	}
	contentType, ok := exportContentTypes[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	schedule, err := s.schedules.FindByID(ctx, scheduleID)
	if err != nil {
		return nil, lookupError(err, "schedule not found", "failed to load schedule")
	}
	entries, err := s.entries.ListEntriesBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, storeError(err, "failed to load schedule entries")
	}
	sortEntriesByDay(entries)

	var body []byte
	if format == ExportICS {
		body, err = s.calendar.Render(schedule.Title, schedule.StartDate, schedule.EndDate, calendarEvents(entries))
	} else {
		body, err = s.tabular[format].Render(scheduleDataset(schedule, entries))
	}
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to render export")
	}

	s.metrics.RecordExport(string(format))
	s.logger.Info("schedule exported", zap.String("schedule_id", scheduleID), zap.String("format", string(format)), zap.Int("entries", len(entries)))
	return &ExportResult{
		Filename:    fmt.Sprintf("schedule-%s.%s", schedule.ID, format),
		ContentType: contentType,
		Body:        body,
	}, nil
}

// sortEntriesByDay orders entries Monday to Friday, keeping storage order
// within a day.
func sortEntriesByDay(entries []models.ScheduleEntry) {
	rank := make(map[models.Weekday]int, len(models.Weekdays))
	for i, d := range models.Weekdays {
		rank[d] = i
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return rank[entries[i].Day] < rank[entries[j].Day]
	})
}

func scheduleDataset(schedule *models.Schedule, entries []models.ScheduleEntry) export.Dataset {
	data := export.Dataset{
		Title:   fmt.Sprintf("%s (%s to %s)", schedule.Title, schedule.StartDate.Format(dateLayout), schedule.EndDate.Format(dateLayout)),
		Headers: exportHeaders,
		Rows:    make([]map[string]string, 0, len(entries)),
	}
	for _, e := range entries {
		row := map[string]string{
			"Day":     e.Day.Label(),
			"Student": entryStudent(e),
		}
		if e.TimeStart != nil {
			row["Start"] = e.TimeStart.String()
		}
		if e.TimeEnd != nil {
			row["End"] = e.TimeEnd.String()
		}
		if d := e.Duration(); d != nil {
			row["Minutes"] = strconv.Itoa(*d)
		}
		if e.Subject != nil {
			row["Subject"] = e.Subject.Label()
		}
		if e.ServiceType != nil {
			row["Type"] = e.ServiceType.Label()
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

func calendarEvents(entries []models.ScheduleEntry) []export.RecurringEvent {
	events := make([]export.RecurringEvent, 0, len(entries))
	for _, e := range entries {
		if e.TimeStart == nil || e.TimeEnd == nil {
			continue
		}
		summary := entryStudent(e)
		if e.Subject != nil && e.ServiceType != nil {
			summary = fmt.Sprintf("%s %s: %s", e.Subject.Label(), e.ServiceType.Label(), summary)
		}
		events = append(events, export.RecurringEvent{
			UID:     e.ID,
			Summary: summary,
			Weekday: e.Day.TimeWeekday(),
			Start:   e.TimeStart.Offset(),
			End:     e.TimeEnd.Offset(),
		})
	}
	return events
}

func entryStudent(e models.ScheduleEntry) string {
	if e.StudentFirstName == nil || e.StudentLastName == nil {
		return "Unassigned"
	}
	return models.Student{FirstName: *e.StudentFirstName, LastName: *e.StudentLastName}.DisplayName()
}
