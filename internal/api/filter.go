package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/guttosm/salespulse/internal/apperror"
	"github.com/guttosm/salespulse/internal/domain/models"
)

// filterQuery is the query-string form of models.FilterCriteria.
// Pointers distinguish "omitted" from an explicit zero.
type filterQuery struct {
	Month   *int   `form:"month" binding:"omitempty,min=0,max=12"`
	Search  string `form:"search" binding:"max=200"`
	Page    *int   `form:"page" binding:"omitempty,min=1"`
	PerPage *int   `form:"perPage" binding:"omitempty,min=1,max=100"`
	Offset  *int   `form:"offset" binding:"omitempty,min=0"`
}

func (q filterQuery) criteria() models.FilterCriteria {
	f := models.DefaultFilter()
	if q.Month != nil {
		f.Month = *q.Month
	}
	f.Search = strings.TrimSpace(q.Search)
	if q.Page != nil {
		f.Page = *q.Page
	}
	if q.PerPage != nil {
		f.PerPage = *q.PerPage
	}
	f.ExplicitOffset = q.Offset
	return f
}

var registerTagNames sync.Once

// useFormTagNames makes validation errors report query parameter names
// (perPage) instead of Go field names (PerPage).
func useFormTagNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	})
}

// bindFilter parses and validates the filter query parameters. Any failure
// is returned as apperror.InvalidFilter.
func bindFilter(c *gin.Context) (models.FilterCriteria, error) {
	var q filterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return models.FilterCriteria{}, apperror.New(apperror.InvalidFilter, formatBindingError(err))
	}
	return q.criteria(), nil
}

// formatBindingError renders validator errors field by field and passes
// anything else (e.g. a non-numeric value) through.
func formatBindingError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	messages := make([]string, 0, len(verrs))
	for _, e := range verrs {
		rule := e.Tag()
		if e.Param() != "" {
			rule += "=" + e.Param()
		}
		messages = append(messages, fmt.Sprintf("%s failed %s (value: '%v')", e.Field(), rule, valueOf(e.Value())))
	}
	return strings.Join(messages, "; ")
}

func valueOf(v any) any {
	if p, ok := v.(*int); ok && p != nil {
		return *p
	}
	return v
}
