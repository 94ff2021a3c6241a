package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"transporterp/models"
	"transporterp/repository"
	"transporterp/services"
	"transporterp/utils"

	"golang.org/x/sync/errgroup"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ------------------------ Payment history ------------------------

type PaymentHistoryHandler struct {
	Store repository.TripStore
}

func (h *PaymentHistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := paymentFilter(r)
	if err != nil {
		writeError(w, r, err, "Invalid filter")
		return
	}
	list, err := h.Store.ListPaymentHistory(r.Context(), filter)
	if err != nil {
		writeError(w, r, err, "Failed to fetch payment history")
		return
	}
	if list == nil {
		list = []*models.PaymentHistory{}
	}
	writeData(w, http.StatusOK, list)
}

func (h *PaymentHistoryHandler) Export(w http.ResponseWriter, r *http.Request) {
	filter, err := paymentFilter(r)
	if err != nil {
		writeError(w, r, err, "Invalid filter")
		return
	}
	list, err := h.Store.ListPaymentHistory(r.Context(), filter)
	if err != nil {
		writeError(w, r, err, "Failed to fetch payment history")
		return
	}
	buf, err := utils.PaymentHistoryToExcel(list)
	if err != nil {
		writeError(w, r, err, "Failed to build export")
		return
	}
	writeAttachment(w, "payment_history.xlsx", buf.Bytes())
}

func paymentFilter(r *http.Request) (models.PaymentHistoryFilter, error) {
	q := r.URL.Query()
	f := models.PaymentHistoryFilter{
		Vehicle:        q.Get("vehicle"),
		IncludeDeleted: q.Get("includeDeleted") == "true",
	}
	if t := q.Get("type"); t != "" {
		pt := models.PaymentType(t)
		if !pt.Valid() {
			return f, &services.ValidationError{Field: "type", Message: fmt.Sprintf("unknown payment type %q", t)}
		}
		f.PaymentType = pt
	}
	if s := q.Get("trip_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return f, &services.ValidationError{Field: "trip_id", Message: "must be an integer"}
		}
		f.TripID = id
	}
	var err error
	if f.FromDate, err = optionalDate("fromDate", q.Get("fromDate")); err != nil {
		return f, err
	}
	if f.ToDate, err = optionalDate("toDate", q.Get("toDate")); err != nil {
		return f, err
	}
	return f, nil
}

func optionalDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := services.ParseDate(field, s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ------------------------ Reports & dashboard ------------------------

type ReportHandler struct {
	Repo repository.ReportRepository
}

func (h *ReportHandler) TripsReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.ReportFilter{Party: q.Get("party")}
	var err error
	if filter.StartDate, err = optionalDate("startDate", q.Get("startDate")); err != nil {
		writeError(w, r, err, "Invalid filter")
		return
	}
	if filter.EndDate, err = optionalDate("endDate", q.Get("endDate")); err != nil {
		writeError(w, r, err, "Invalid filter")
		return
	}

	trips, err := h.Repo.TripsForReport(r.Context(), filter)
	if err != nil {
		writeError(w, r, err, "Failed to fetch trips")
		return
	}
	buf, err := utils.TripsToExcel(trips)
	if err != nil {
		writeError(w, r, err, "Failed to build report")
		return
	}
	writeAttachment(w, "trips_report.xlsx", buf.Bytes())
}

func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.Repo.Summary(r.Context())
	if err != nil {
		writeError(w, r, err, "Failed to fetch summary")
		return
	}
	writeData(w, http.StatusOK, s)
}

func (h *ReportHandler) ProfitTrend(w http.ResponseWriter, r *http.Request) {
	points, err := h.Repo.ProfitTrend(r.Context())
	if err != nil {
		writeError(w, r, err, "Failed to fetch profit trend")
		return
	}
	writeData(w, http.StatusOK, nonNilPoints(points))
}

func (h *ReportHandler) TripVolume(w http.ResponseWriter, r *http.Request) {
	points, err := h.Repo.TripVolume(r.Context())
	if err != nil {
		writeError(w, r, err, "Failed to fetch trip volume")
		return
	}
	writeData(w, http.StatusOK, nonNilPoints(points))
}

type dashboardResponse struct {
	Summary     *models.DashboardSummary `json:"summary"`
	ProfitTrend []models.MonthlyPoint    `json:"profit_trend"`
	TripVolume  []models.MonthlyPoint    `json:"trip_volume"`
}

// Dashboard fetches the summary and both monthly series concurrently.
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	var resp dashboardResponse
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		s, err := h.Repo.Summary(ctx)
		resp.Summary = s
		return err
	})
	g.Go(func() error {
		p, err := h.Repo.ProfitTrend(ctx)
		resp.ProfitTrend = nonNilPoints(p)
		return err
	})
	g.Go(func() error {
		v, err := h.Repo.TripVolume(ctx)
		resp.TripVolume = nonNilPoints(v)
		return err
	})
	if err := g.Wait(); err != nil {
		writeError(w, r, err, "Failed to fetch dashboard")
		return
	}
	writeData(w, http.StatusOK, resp)
}

func nonNilPoints(p []models.MonthlyPoint) []models.MonthlyPoint {
	if p == nil {
		return []models.MonthlyPoint{}
	}
	return p
}

func writeAttachment(w http.ResponseWriter, filename string, body []byte) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
