package eventlog

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/schedtrace/internal/domain"
	"github.com/go-playground/validator/v10"
)

var catalogValidate = validator.New()

// ValidateEvents reports suspicious events. None of the findings are fatal:
// replay degrades gracefully around them.
func ValidateEvents(events []domain.Event) []error {
	var errs []error

	for i := range events {
		e := &events[i]
		prefix := fmt.Sprintf("events[%d]", i)

		if !domain.ValidEventTypes[e.Type] {
			errs = append(errs, fmt.Errorf("%s.type: unknown event type %q", prefix, e.Type))
		}
		if e.Timestamp < 0 {
			errs = append(errs, fmt.Errorf("%s.timestamp: negative timestamp %d", prefix, e.Timestamp))
		}
		if e.HasTiming() && *e.StartTime > *e.EndTime {
			errs = append(errs, fmt.Errorf("%s: startTime (%d) after endTime (%d)", prefix, *e.StartTime, *e.EndTime))
		}
		if e.DecisionLevel != nil && *e.DecisionLevel < 0 {
			errs = append(errs, fmt.Errorf("%s.decisionLevel: negative level %d", prefix, *e.DecisionLevel))
		}
		if e.NodeStatus != "" && !domain.ValidNodeStatuses[e.NodeStatus] {
			errs = append(errs, fmt.Errorf("%s.nodeStatus: unknown status %q", prefix, e.NodeStatus))
		}
		if e.NodeID != "" && e.NodeID == e.ParentNodeID {
			errs = append(errs, fmt.Errorf("%s.parentNodeId: node %q is its own parent", prefix, e.NodeID))
		}
		if e.Type == domain.EventModify && len(e.NewValue) > 0 {
			if _, err := DecodePatch(e.NewValue); err != nil {
				errs = append(errs, fmt.Errorf("%s.newValue: %w", prefix, err))
			}
		}
	}

	return errs
}

// ValidateCatalog checks every catalog entry's required fields and
// difficulty, and rejects duplicate ids.
func ValidateCatalog(instances []domain.Instance) []error {
	var errs []error
	seen := make(map[string]bool)

	for i := range instances {
		prefix := fmt.Sprintf("instances[%d]", i)
		if err := catalogValidate.Struct(&instances[i]); err != nil {
			var fieldErrs validator.ValidationErrors
			if errors.As(err, &fieldErrs) {
				for _, fe := range fieldErrs {
					errs = append(errs, fmt.Errorf("%s.%s: failed %q check", prefix, fe.Field(), fe.Tag()))
				}
			} else {
				errs = append(errs, fmt.Errorf("%s: %w", prefix, err))
			}
		}
		if id := instances[i].ID; id != "" {
			if seen[id] {
				errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, id))
			}
			seen[id] = true
		}
	}

	return errs
}

func joinValidation(errs []error) error {
	msg := fmt.Sprintf("catalog validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return errors.New(msg)
}
