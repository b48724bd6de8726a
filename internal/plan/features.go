// Package plan implementa el gate de features y límites por suscripción.
// Todo dato de plan faltante o inconsistente deniega: nunca default "allowed".
package plan

import (
	"fmt"
	"sort"
)

// Feature es una feature key del vocabulario versionado.
type Feature string

// Vocabulario v1. Las keys se validan una sola vez al cruzar el boundary
// del store; una key fuera del vocabulario se rechaza en el parse.
const (
	// FeatureAll es el sentinel "todas las features": cortocircuita
	// cualquier chequeo a true, sin importar la lista explícita.
	FeatureAll Feature = "all"

	FeatureTasks     Feature = "module:tasks"
	FeatureTrips     Feature = "module:trips"
	FeatureMessaging Feature = "module:messaging"
	FeatureFinance   Feature = "module:finance"
	FeatureSales     Feature = "module:sales"
	FeatureDocuments Feature = "module:documents"
	FeatureReports   Feature = "module:reports"
)

var knownFeatures = map[Feature]struct{}{
	FeatureAll:       {},
	FeatureTasks:     {},
	FeatureTrips:     {},
	FeatureMessaging: {},
	FeatureFinance:   {},
	FeatureSales:     {},
	FeatureDocuments: {},
	FeatureReports:   {},
}

// Limit es una limit key del vocabulario versionado.
type Limit string

const (
	LimitCrewMembers Limit = "crew_members"
	LimitActiveTrips Limit = "active_trips"
	LimitOpenTasks   Limit = "open_tasks"
	LimitDocuments   Limit = "documents"
)

var knownLimits = map[Limit]struct{}{
	LimitCrewMembers: {},
	LimitActiveTrips: {},
	LimitOpenTasks:   {},
	LimitDocuments:   {},
}

// KnownLimit reporta si la limit key pertenece al vocabulario.
func KnownLimit(l Limit) bool {
	_, ok := knownLimits[l]
	return ok
}

// FeatureSet es el conjunto validado de features de un plan.
type FeatureSet struct {
	all  bool
	keys map[Feature]struct{}
}

// ParseFeatureSet valida la lista cruda del store contra el vocabulario.
// Una key desconocida es un error: el plan viene corrupto y el caller
// debe tratarlo como deny.
func ParseFeatureSet(raw []string) (FeatureSet, error) {
	fs := FeatureSet{keys: make(map[Feature]struct{}, len(raw))}
	for _, r := range raw {
		f := Feature(r)
		if _, ok := knownFeatures[f]; !ok {
			return FeatureSet{}, fmt.Errorf("plan: unknown feature key %q", r)
		}
		if f == FeatureAll {
			fs.all = true
			continue
		}
		fs.keys[f] = struct{}{}
	}
	return fs, nil
}

// Has reporta si la feature está incluida. El sentinel FeatureAll
// cortocircuita a true.
func (fs FeatureSet) Has(f Feature) bool {
	if fs.all {
		return true
	}
	_, ok := fs.keys[f]
	return ok
}

// List retorna las keys explícitas ordenadas (sin el sentinel). Para logs y admin API.
func (fs FeatureSet) List() []string {
	out := make([]string, 0, len(fs.keys))
	for k := range fs.keys {
		out = append(out, string(k))
	}
	sort.Strings(out)
	return out
}
