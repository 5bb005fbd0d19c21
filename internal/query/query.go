// Package query translates loosely-typed list parameters into a validated,
// ordered sequence of filter/search/sort/paginate stages. The builder does no
// I/O; repositories render the stage list into SQL.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/errs"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// sortColumns is the allowed sort-field set and its column mapping.
var sortColumns = map[string]string{
	"views":     "views",
	"title":     "title",
	"createdAt": "created_at",
}

// ListQuery is the validated shape of list parameters.
type ListQuery struct {
	Page      int
	Limit     int
	Search    string
	SortField string // empty means natural order
	SortDesc  bool
	OwnerID   string // empty means no owner filter
}

// Offset returns the number of records skipped before this page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// ParseListQuery validates raw URL parameters into a ListQuery. Every
// malformed value fails with an InvalidArgument error; nothing is silently
// coerced except the page/limit defaults for absent values.
func ParseListQuery(values url.Values) (ListQuery, error) {
	q := ListQuery{Page: DefaultPage, Limit: DefaultLimit}

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return q, errs.InvalidArgument("page must be a positive integer")
		}
		q.Page = page
	}

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return q, errs.InvalidArgument("limit must be a positive integer")
		}
		if limit > MaxLimit {
			limit = MaxLimit
		}
		q.Limit = limit
	}

	q.Search = strings.TrimSpace(values.Get("query"))

	sortBy := values.Get("sortBy")
	sortType := values.Get("sortType")
	if sortBy != "" || sortType != "" {
		if sortBy == "" || sortType == "" {
			return q, errs.InvalidArgument("sortBy and sortType must be provided together")
		}
		if _, ok := sortColumns[sortBy]; !ok {
			return q, errs.InvalidArgument("invalid sortBy; allowed values are views, title, createdAt")
		}
		desc, err := parseSortDirection(sortType)
		if err != nil {
			return q, err
		}
		q.SortField = sortBy
		q.SortDesc = desc
	}

	if owner := values.Get("userId"); owner != "" {
		if _, err := uuid.Parse(owner); err != nil {
			return q, errs.InvalidArgument("invalid user id")
		}
		q.OwnerID = owner
	}

	return q, nil
}

func parseSortDirection(raw string) (desc bool, err error) {
	switch raw {
	case "asc", "1":
		return false, nil
	case "desc", "-1":
		return true, nil
	default:
		return false, errs.InvalidArgument("invalid sortType; allowed values are asc, desc, 1, -1")
	}
}

// StageKind identifies a pipeline stage.
type StageKind int

const (
	StageVisibility StageKind = iota + 1
	StageOwnerFilter
	StageSearch
	StageSort
	StagePaginate
)

// Stage is one step of the query plan. Fields are populated per kind.
type Stage struct {
	Kind     StageKind
	ViewerID string // StageVisibility
	OwnerID  string // StageOwnerFilter
	Pattern  string // StageSearch: escaped ILIKE pattern
	Column   string // StageSort
	Desc     bool   // StageSort
	Limit    int    // StagePaginate
	Offset   int    // StagePaginate
}

// Build assembles the ordered stage list for a video listing. viewerID is
// the authenticated identity ("" for anonymous); the visibility stage always
// comes first so unpublished records owned by others never reach later
// stages.
func Build(q ListQuery, viewerID string) []Stage {
	stages := []Stage{{Kind: StageVisibility, ViewerID: viewerID}}

	if q.OwnerID != "" {
		stages = append(stages, Stage{Kind: StageOwnerFilter, OwnerID: q.OwnerID})
	}
	if q.Search != "" {
		stages = append(stages, Stage{Kind: StageSearch, Pattern: LikePattern(q.Search)})
	}
	if q.SortField != "" {
		stages = append(stages, Stage{Kind: StageSort, Column: sortColumns[q.SortField], Desc: q.SortDesc})
	}
	stages = append(stages, Stage{Kind: StagePaginate, Limit: q.Limit, Offset: q.Offset()})

	return stages
}

// likeEscaper neutralizes ILIKE metacharacters so user input can never act
// as a pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern wraps escaped user input in a contains-match pattern.
func LikePattern(input string) string {
	return "%" + likeEscaper.Replace(input) + "%"
}

// SQL renders the stage list into WHERE/ORDER BY/LIMIT fragments with
// positional arguments starting at $argStart. alias prefixes the filtered
// table's columns.
func SQL(stages []Stage, alias string, argStart int) (where, tail string, args []interface{}) {
	var conds []string
	var order string
	var page string

	col := func(name string) string {
		if alias == "" {
			return name
		}
		return alias + "." + name
	}

	next := func() int { return argStart + len(args) }

	for _, st := range stages {
		switch st.Kind {
		case StageVisibility:
			if st.ViewerID == "" {
				conds = append(conds, col("is_published"))
			} else {
				conds = append(conds, fmt.Sprintf("(%s OR %s = $%d)", col("is_published"), col("owner_id"), next()))
				args = append(args, st.ViewerID)
			}
		case StageOwnerFilter:
			conds = append(conds, fmt.Sprintf("%s = $%d", col("owner_id"), next()))
			args = append(args, st.OwnerID)
		case StageSearch:
			n := next()
			conds = append(conds, fmt.Sprintf(`(%s ILIKE $%d ESCAPE '\' OR %s ILIKE $%d ESCAPE '\')`,
				col("title"), n, col("description"), n))
			args = append(args, st.Pattern)
		case StageSort:
			dir := "ASC"
			if st.Desc {
				dir = "DESC"
			}
			order = fmt.Sprintf(" ORDER BY %s %s", col(st.Column), dir)
		case StagePaginate:
			page = fmt.Sprintf(" LIMIT $%d OFFSET $%d", next(), next()+1)
			args = append(args, st.Limit, st.Offset)
		}
	}

	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}
	if order == "" {
		// Natural order: newest first keeps pagination deterministic.
		order = fmt.Sprintf(" ORDER BY %s DESC", col("created_at"))
	}

	return where, order + page, args
}
