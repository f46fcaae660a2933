package domain

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// ActivityTemplate is a preset for a recurring activity of the day.
type ActivityTemplate struct {
	Key            string
	Name           string
	Description    string
	SuggestedStart string
	SuggestedEnd   string
	DefaultProcess string
	Keywords       []string
	OTI            string
	TimeType       TimeType
	Observations   string
}

var templates = []ActivityTemplate{
	{
		Key:            "control-horario",
		Name:           "Horario Laboral",
		Description:    "Control de acceso y tiempo de trabajo del personal.",
		SuggestedStart: "07:00",
		SuggestedEnd:   "17:00",
		DefaultProcess: "Horario Laboral",
		Keywords:       []string{"horario", "laboral", "entrada", "salida", "asistencia", "turno", "jornada"},
		OTI:            "VR",
		TimeType:       TimeTypeWorkSchedule,
		Observations:   "Control de horario laboral - Entrada y salida",
	},
	{
		Key:            "reunion-inicial",
		Name:           "Reunión Inicial",
		Description:    "Reunión diaria de inicio de turno",
		SuggestedStart: "07:00",
		SuggestedEnd:   "07:15",
		DefaultProcess: "Reunion Inicial",
		Keywords:       []string{"reunion", "inicial", "coordinacion", "planificacion", "inicio"},
		OTI:            "VR",
		TimeType:       TimeTypePreparation,
	},
	{
		Key:            "desayuno",
		Name:           "Desayuno",
		Description:    "Tiempo de alimentación - desayuno",
		SuggestedStart: "10:00",
		SuggestedEnd:   "10:20",
		DefaultProcess: "Desayuno",
		Keywords:       []string{"desayuno", "alimentacion", "comida", "merienda", "refrigerio"},
		OTI:            "VR",
		TimeType:       TimeTypeFeeding,
	},
	{
		Key:            "almuerzo",
		Name:           "Almuerzo",
		Description:    "Tiempo de alimentación - almuerzo",
		SuggestedStart: "13:00",
		SuggestedEnd:   "13:30",
		DefaultProcess: "Almuerzo",
		Keywords:       []string{"almuerzo", "alimentacion", "comida", "lunch"},
		OTI:            "VR",
		TimeType:       TimeTypeFeeding,
	},
	{
		Key:            "permiso-laboral",
		Name:           "Permiso Laboral",
		Description:    "Permisos laborales, licencias y ausencias justificadas",
		DefaultProcess: "Permiso Laboral",
		Keywords:       []string{"permiso", "licencia", "ausencia", "justificada", "laboral", "personal", "salud", "banco", "tiempo"},
		OTI:            "No Aplica",
		TimeType:       TimeTypeLaborPermit,
	},
}

// Templates returns the built-in activity templates.
func Templates() []ActivityTemplate {
	out := make([]ActivityTemplate, len(templates))
	copy(out, templates)
	return out
}

// TemplateByKey finds a template by key or, failing that, by name.
func TemplateByKey(key string) (ActivityTemplate, bool) {
	needle := foldText(key)
	for _, t := range templates {
		if t.Key == key || foldText(t.Name) == needle {
			return t, true
		}
	}
	return ActivityTemplate{}, false
}

// NewActivity builds a draft activity from the template. The suggested
// hours are applied; callers may override them afterwards.
func (t ActivityTemplate) NewActivity() Activity {
	return Activity{
		OTI:           t.OTI,
		Processes:     []string{},
		Machines:      []string{},
		Supplies:      []string{},
		TimeType:      t.TimeType,
		StartTime:     t.SuggestedStart,
		EndTime:       t.SuggestedEnd,
		Observations:  t.Observations,
		TemplateLabel: t.Name,
	}
}

// MatchProcesses picks the available processes that best fit the
// template. An exact name match on DefaultProcess wins; otherwise
// processes are ranked by how many keywords their name contains.
func (t ActivityTemplate) MatchProcesses(available []Process) []Process {
	defaultName := foldText(t.DefaultProcess)
	for _, p := range available {
		if foldText(p.Name) == defaultName {
			return []Process{p}
		}
	}

	type scored struct {
		process Process
		score   int
	}
	var hits []scored
	for _, p := range available {
		name := foldText(p.Name)
		score := 0
		for _, kw := range t.Keywords {
			if strings.Contains(name, foldText(kw)) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{process: p, score: score})
		}
	}
	if len(hits) == 0 {
		return nil
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})
	return []Process{hits[0].process}
}

// foldText lowercases and strips accents so "Reunión" matches "reunion".
func foldText(s string) string {
	decomposed := norm.NFD.String(strings.ToLower(strings.TrimSpace(s)))
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
