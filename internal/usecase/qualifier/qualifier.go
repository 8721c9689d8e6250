// Package qualifier assigns client-facing labels (rapid, comfort, healthy...)
// to candidate journeys and prunes the ones no rule selected.
package qualifier

import "github.com/journey-planner/internal/domain"

// TagUnqualified ставится на неразмеченные поездки в debug-режиме
const TagUnqualified = "to_delete"

// Options - параметры разметки
type Options struct {
	Debug     bool
	Isochrone bool
	Clockwise bool
}

// Qualify сбрасывает типы, размечает поездки по правилам профиля и удаляет
// неразмеченные (кроме debug и изохрон). Порядок выживших сохраняется.
func Qualify(journeys []*domain.Journey, profile Profile, opts Options) []*domain.Journey {
	for _, j := range journeys {
		j.Type = ""
	}

	ranking := Ranking(opts.Clockwise)
	comfort := Chain(CompareComfort, ranking)

	for _, rule := range profile.Rules {
		for _, bucket := range rule.Buckets {
			candidates := unlabeled(journeys, bucket)
			if len(candidates) == 0 {
				continue
			}
			cmp := ranking
			if rule.Label == LabelComfort {
				cmp = comfort
			}
			bestBy(candidates, cmp).Type = rule.Label
			break
		}
	}

	if opts.Debug || opts.Isochrone {
		if opts.Debug {
			for _, j := range journeys {
				if j.Type == "" {
					j.AddTag(TagUnqualified)
				}
			}
		}
		return journeys
	}

	kept := make([]*domain.Journey, 0, len(journeys))
	for _, j := range journeys {
		if j.Type != "" {
			kept = append(kept, j)
		}
	}
	return kept
}

func unlabeled(journeys []*domain.Journey, rawType string) []*domain.Journey {
	var out []*domain.Journey
	for _, j := range journeys {
		if j.Type == "" && j.RawType == rawType {
			out = append(out, j)
		}
	}
	return out
}
