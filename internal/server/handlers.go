package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Veraticus/stockroom/internal/category"
	"github.com/Veraticus/stockroom/internal/export"
	"github.com/Veraticus/stockroom/internal/metrics"
	"github.com/Veraticus/stockroom/internal/model"
	"github.com/Veraticus/stockroom/internal/report"
	"github.com/Veraticus/stockroom/internal/requests"
	"github.com/Veraticus/stockroom/internal/service"
)

func (s *Server) listCategories(c *gin.Context) {
	categories, err := s.store.GetCategories(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}

	resp := make([]categoryResponse, 0, len(categories))
	for _, cat := range categories {
		resp = append(resp, fromCategory(cat))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) normalizeCategory(c *gin.Context) {
	label := c.Query("label")
	canonical := category.Normalize(label)
	metrics.RecordNormalization(string(canonical))

	c.JSON(http.StatusOK, gin.H{"label": label, "category": canonical})
}

func (s *Server) equalCategories(c *gin.Context) {
	a, b := c.Query("a"), c.Query("b")
	c.JSON(http.StatusOK, gin.H{"a": a, "b": b, "equal": category.Equal(a, b)})
}

func (s *Server) listItems(c *gin.Context) {
	items, err := s.store.ListItems(c.Request.Context(), c.Query("category"))
	if err != nil {
		s.fail(c, err)
		return
	}

	resp := make([]itemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, fromItem(item))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) createItem(c *gin.Context) {
	var payload itemPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "invalid item payload: "+err.Error())
		return
	}

	item := model.Item{
		ID:            s.newID(),
		Name:          strings.TrimSpace(payload.Name),
		CategoryLabel: strings.TrimSpace(payload.Category),
		Location:      strings.TrimSpace(payload.Location),
		Quantity:      payload.Quantity,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.store.SaveItem(c.Request.Context(), &item); err != nil {
		s.fail(c, err)
		return
	}
	metrics.RecordNormalization(string(item.Category))

	c.JSON(http.StatusCreated, fromItem(item))
}

func (s *Server) getItem(c *gin.Context) {
	item, err := s.store.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, fromItem(*item))
}

func (s *Server) listRequests(c *gin.Context) {
	var filter service.RequestFilter

	if raw := c.Query("status"); raw != "" {
		status, err := model.ParseRequestStatus(raw)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		filter.Status = status
	}

	if raw := c.Query("period"); raw != "" {
		period, err := report.ParsePeriod(raw)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		from, to := period.Start(), period.End()
		filter.From, filter.To = &from, &to
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			badRequest(c, fmt.Sprintf("invalid limit %q", raw))
			return
		}
		filter.Limit = limit
	}

	list, err := s.requests.List(c.Request.Context(), filter)
	if err != nil {
		s.fail(c, err)
		return
	}
	if list == nil {
		list = []model.Request{}
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) createRequest(c *gin.Context) {
	var payload requestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "invalid request payload: "+err.Error())
		return
	}

	req, err := s.requests.Create(c.Request.Context(), requests.NewRequest{
		ItemName:      payload.ItemName,
		Quantity:      payload.Quantity,
		Priority:      payload.Priority,
		RequesterName: payload.RequesterName,
		Notes:         payload.Notes,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

func (s *Server) getRequest(c *gin.Context) {
	req, err := s.requests.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (s *Server) approveRequest(c *gin.Context) {
	s.transitionRequest(c, s.requests.Approve)
}

func (s *Server) rejectRequest(c *gin.Context) {
	s.transitionRequest(c, s.requests.Reject)
}

func (s *Server) completeRequest(c *gin.Context) {
	s.transitionRequest(c, s.requests.Complete)
}

func (s *Server) transitionRequest(c *gin.Context, transition func(ctx context.Context, id string) (*model.Request, error)) {
	req, err := transition(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (s *Server) cancelRequest(c *gin.Context) {
	if err := s.requests.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// periodParam reads the :year and :month path parameters.
func periodParam(c *gin.Context) (report.Period, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		badRequest(c, fmt.Sprintf("invalid year %q", c.Param("year")))
		return report.Period{}, false
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		badRequest(c, fmt.Sprintf("invalid month %q", c.Param("month")))
		return report.Period{}, false
	}
	period, err := report.NewPeriod(year, month)
	if err != nil {
		badRequest(c, err.Error())
		return report.Period{}, false
	}
	return period, true
}

func (s *Server) reportSummary(c *gin.Context) {
	period, ok := periodParam(c)
	if !ok {
		return
	}

	records, err := s.store.GetRequestsByPeriod(c.Request.Context(), period, s.location)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, summaryResponse{
		Period:  period.String(),
		Title:   period.Title(),
		Summary: report.Summarize(records),
	})
}

func (s *Server) reportExport(c *gin.Context) {
	period, ok := periodParam(c)
	if !ok {
		return
	}
	format, err := export.ParseFormat(c.Param("format"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	exporter, err := export.ForFormat(format)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	records, err := s.store.GetRequestsByPeriod(c.Request.Context(), period, s.location)
	if err != nil {
		s.fail(c, err)
		return
	}

	doc, err := export.Render(exporter, records, report.Summarize(records), period)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.FileName))
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}
