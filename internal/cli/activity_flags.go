package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"jornada-tracker/internal/domain"
	"jornada-tracker/internal/errors"
	"jornada-tracker/internal/services"
)

// activityFlags collects the activity fields given on the command line
type activityFlags struct {
	oti          string
	area         string
	processes    []string
	machines     []string
	supplies     []string
	timeType     string
	permitType   string
	start        string
	end          string
	observations string
}

func (f *activityFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.oti, "oti", "", "Número de OTI")
	flags.StringVar(&f.area, "area", "", "ID del área de producción")
	flags.StringSliceVar(&f.processes, "process", nil, "ID de proceso (repetible)")
	flags.StringSliceVar(&f.machines, "machine", nil, "ID de máquina (repetible)")
	flags.StringSliceVar(&f.supplies, "supply", nil, "ID de insumo (repetible)")
	flags.StringVar(&f.timeType, "time-type", "", "Tipo de tiempo, por ejemplo \"Operación\" o \"Permiso Laboral\"")
	flags.StringVar(&f.permitType, "permit-type", "", "Tipo de permiso: remunerado o no-remunerado")
	flags.StringVar(&f.start, "start", "", "Hora de inicio HH:MM")
	flags.StringVar(&f.end, "end", "", "Hora de fin HH:MM")
	flags.StringVar(&f.observations, "obs", "", "Observaciones")
}

// activity builds a draft activity from the given flags
func (f *activityFlags) activity() (domain.Activity, error) {
	timeType, permitType, err := f.types()
	if err != nil {
		return domain.Activity{}, err
	}
	if err := f.checkClocks(); err != nil {
		return domain.Activity{}, err
	}
	return domain.Activity{
		OTI:            strings.TrimSpace(f.oti),
		ProductionArea: strings.TrimSpace(f.area),
		Processes:      f.processes,
		Machines:       f.machines,
		Supplies:       f.supplies,
		TimeType:       timeType,
		PermitType:     permitType,
		StartTime:      strings.TrimSpace(f.start),
		EndTime:        strings.TrimSpace(f.end),
		Observations:   strings.TrimSpace(f.observations),
	}, nil
}

// patch builds an activity patch holding only the flags the user set
func (f *activityFlags) patch(cmd *cobra.Command) (services.ActivityPatch, error) {
	var p services.ActivityPatch
	timeType, permitType, err := f.types()
	if err != nil {
		return p, err
	}
	if err := f.checkClocks(); err != nil {
		return p, err
	}

	changed := cmd.Flags().Changed
	if changed("oti") {
		p.OTI = trimmedPtr(f.oti)
	}
	if changed("area") {
		p.ProductionArea = trimmedPtr(f.area)
	}
	if changed("process") {
		p.Processes = f.processes
	}
	if changed("machine") {
		p.Machines = f.machines
	}
	if changed("supply") {
		p.Supplies = f.supplies
	}
	if changed("time-type") {
		p.TimeType = &timeType
	}
	if changed("permit-type") {
		p.PermitType = &permitType
	}
	if changed("start") {
		p.StartTime = trimmedPtr(f.start)
	}
	if changed("end") {
		p.EndTime = trimmedPtr(f.end)
	}
	if changed("obs") {
		p.Observations = trimmedPtr(f.observations)
	}
	return p, nil
}

func (f *activityFlags) types() (domain.TimeType, domain.PermitType, error) {
	var (
		timeType   domain.TimeType
		permitType domain.PermitType
		ok         bool
	)
	if strings.TrimSpace(f.timeType) != "" {
		if timeType, ok = domain.ParseTimeType(f.timeType); !ok {
			return "", "", errors.NewInvalidInputError("tipo de tiempo", f.timeType, "tipo de tiempo desconocido")
		}
	}
	if strings.TrimSpace(f.permitType) != "" {
		if permitType, ok = domain.ParsePermitType(f.permitType); !ok {
			return "", "", errors.NewInvalidInputError("tipo de permiso", f.permitType, "usa remunerado o no-remunerado")
		}
	}
	return timeType, permitType, nil
}

func (f *activityFlags) checkClocks() error {
	clocks := []struct{ field, value string }{
		{"hora de inicio", f.start},
		{"hora de fin", f.end},
	}
	for _, c := range clocks {
		if strings.TrimSpace(c.value) == "" {
			continue
		}
		if _, err := domain.ParseClockTime(c.value); err != nil {
			return errors.NewInvalidInputError(c.field, c.value, "usa el formato HH:MM")
		}
	}
	return nil
}

func trimmedPtr(s string) *string {
	s = strings.TrimSpace(s)
	return &s
}
