package database

import (
	"context"
	"sort"
	"strings"

	"github.com/rpupo63/teamforge-backend/models"
	"gorm.io/gorm"
)

// FilterAll disables filtering on the axis it appears in.
const FilterAll = "all"

// People-count buckets offered on the dashboard.
const (
	BucketSmall  = "2-3"
	BucketMedium = "4-6"
	BucketLarge  = "7+"
)

// ProjectFilter narrows projects. Axes combine with AND, values within an
// axis combine with OR. An empty axis matches everything.
type ProjectFilter struct {
	Sectors      []string `url:"sectors,omitempty"`
	PeopleCounts []string `url:"people_count,omitempty"`
	Skills       []string `url:"skills,omitempty"`
}

func cleanAxis(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if strings.EqualFold(v, FilterAll) {
			return nil
		}
		out = append(out, v)
	}
	return out
}

// Normalized drops blanks and collapses axes containing "all".
func (f ProjectFilter) Normalized() ProjectFilter {
	return ProjectFilter{
		Sectors:      cleanAxis(f.Sectors),
		PeopleCounts: cleanAxis(f.PeopleCounts),
		Skills:       cleanAxis(f.Skills),
	}
}

// IsEmpty reports whether the filter would match every project.
func (f ProjectFilter) IsEmpty() bool {
	n := f.Normalized()
	return len(n.Sectors) == 0 && len(n.PeopleCounts) == 0 && len(n.Skills) == 0
}

// FilterOptions lists the values present in the projects table.
type FilterOptions struct {
	Sectors      []string `json:"sectors"`
	PeopleCounts []int    `json:"people_counts"`
	Skills       []string `json:"skills"`
}

// FilterOptions collects distinct sectors, people counts and skill tokens, each sorted.
func (r *ProjectRepo) FilterOptions(ctx context.Context) (FilterOptions, error) {
	opts := FilterOptions{Sectors: []string{}, PeopleCounts: []int{}, Skills: []string{}}
	db := r.db.WithContext(ctx).Model(&models.Project{})

	if err := db.Session(&gorm.Session{}).Distinct().Order("sector ASC").Pluck("sector", &opts.Sectors).Error; err != nil {
		return opts, err
	}
	if err := db.Session(&gorm.Session{}).Distinct().Order("people_count ASC").Pluck("people_count", &opts.PeopleCounts).Error; err != nil {
		return opts, err
	}

	var raw []string
	if err := db.Session(&gorm.Session{}).Where("skills IS NOT NULL").Pluck("skills", &raw).Error; err != nil {
		return opts, err
	}
	seen := map[string]struct{}{}
	for _, s := range raw {
		for _, tok := range models.SplitSkills(&s) {
			if _, ok := seen[tok]; !ok {
				seen[tok] = struct{}{}
				opts.Skills = append(opts.Skills, tok)
			}
		}
	}
	sort.Strings(opts.Skills)
	return opts, nil
}

// Filter returns the projects matching f, newest first.
func (r *ProjectRepo) Filter(ctx context.Context, f ProjectFilter) ([]models.Project, error) {
	f = f.Normalized()
	q := r.db.WithContext(ctx).Model(&models.Project{})

	if len(f.Sectors) > 0 {
		q = q.Where("sector IN ?", f.Sectors)
	}

	if len(f.PeopleCounts) > 0 {
		var clauses []string
		for _, bucket := range f.PeopleCounts {
			switch bucket {
			case BucketSmall:
				clauses = append(clauses, "people_count BETWEEN 2 AND 3")
			case BucketMedium:
				clauses = append(clauses, "people_count BETWEEN 4 AND 6")
			case BucketLarge:
				clauses = append(clauses, "people_count >= 7")
			}
		}
		if len(clauses) > 0 {
			q = q.Where("(" + strings.Join(clauses, " OR ") + ")")
		}
	}

	if len(f.Skills) > 0 {
		var clauses []string
		var args []any
		for _, skill := range f.Skills {
			clauses = append(clauses, "skills LIKE ?")
			args = append(args, "%"+skill+"%")
		}
		q = q.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}

	var projects []models.Project
	err := q.Order("id DESC").Find(&projects).Error
	return projects, err
}
