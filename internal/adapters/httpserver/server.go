package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/zhilovhub/EasyShop/internal/adapters/stock"
	"github.com/zhilovhub/EasyShop/internal/domain"
	"github.com/zhilovhub/EasyShop/internal/usecase"
)

const sessionCookie = "easyshop_session"

type Server struct {
	mux     *http.ServeMux
	carts   *usecase.CartUC
	orders  *usecase.OrderUC
	catalog domain.CatalogService
	entry   domain.ProductEntry
}

func New(carts *usecase.CartUC, orders *usecase.OrderUC, catalog domain.CatalogService, entry domain.ProductEntry) http.Handler {
	s := &Server{
		mux:     http.NewServeMux(),
		carts:   carts,
		orders:  orders,
		catalog: catalog,
		entry:   entry,
	}
	s.routes()
	// RequestID must wrap Logging so the id is in the request context when
	// the access line is written; Recovery sits innermost so a panic still
	// produces a 500 access-log entry.
	return Chain(s.mux,
		Recovery,
		Logging,
		RequestID,
	)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	s.mux.HandleFunc("/api/session", s.handleSession)
	s.mux.HandleFunc("/api/products", s.handleProducts)
	s.mux.HandleFunc("/api/categories", s.handleCategories)
	s.mux.HandleFunc("/api/order_options", s.handleOrderOptions)

	s.mux.HandleFunc("/api/cart", s.handleCart)
	s.mux.HandleFunc("/api/cart/quantity", s.handleCartQuantity)
	s.mux.HandleFunc("/api/cart/variant", s.handleCartVariant)
	s.mux.HandleFunc("/api/order", s.handleOrder)

	s.mux.HandleFunc("/admin/orders", s.handleAdminOrders)
	s.mux.HandleFunc("/admin/orders/export", s.handleAdminOrdersExport)
	s.mux.HandleFunc("/admin/products/export", s.handleAdminProductsExport)
	s.mux.HandleFunc("/admin/products/import", s.handleAdminProductsImport)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSession loads the shop catalog into a fresh cart session and hands
// the session cookie to the mini-app.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	id, state, err := s.carts.StartSession(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusCreated, map[string]any{"products": state.Products})
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	id, ok := s.session(w, r)
	if !ok {
		return
	}
	spec, err := parseFilterSpec(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	products, err := s.carts.Visible(id, spec)
	if err != nil {
		s.writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	cats, err := s.carts.Categories(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) handleOrderOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	fields, err := s.carts.OrderOptions(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, fields)
}

func (s *Server) handleCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	id, ok := s.session(w, r)
	if !ok {
		return
	}
	state, err := s.carts.State(id)
	if err != nil {
		s.writeUsecaseError(w, err)
		return
	}
	writeCartView(w, state)
}

func (s *Server) handleCartQuantity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	id, ok := s.session(w, r)
	if !ok {
		return
	}
	var req struct {
		ProductID int64 `json:"product_id"`
		Delta     int   `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Delta != 1 && req.Delta != -1 {
		http.Error(w, "delta must be +1 or -1", http.StatusBadRequest)
		return
	}
	state, err := s.carts.SetQuantity(id, req.ProductID, req.Delta)
	if err != nil {
		s.writeUsecaseError(w, err)
		return
	}
	writeCartView(w, state)
}

func (s *Server) handleCartVariant(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	id, ok := s.session(w, r)
	if !ok {
		return
	}
	var req struct {
		ProductID int64  `json:"product_id"`
		Group     string `json:"group"`
		Index     int    `json:"index"`
		On        bool   `json:"on"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	state, err := s.carts.SelectVariant(id, req.ProductID, req.Group, req.Index, req.On)
	if err != nil {
		s.writeUsecaseError(w, err)
		return
	}
	writeCartView(w, state)
}

// handleOrder validates the submitted field values against the upstream
// schema, then composes and submits the order. Validation failures return
// 422 with every missing field id so the mini-app can highlight them all.
func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	id, ok := s.session(w, r)
	if !ok {
		return
	}
	var req struct {
		FromUser int64 `json:"from_user"`
		Fields   []struct {
			ID    string `json:"id"`
			Value string `json:"value"`
		} `json:"fields"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	fields, err := s.carts.OrderOptions(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	values := make(map[string]string, len(req.Fields))
	for _, f := range req.Fields {
		values[f.ID] = f.Value
	}
	for i := range fields {
		fields[i].Value = values[fields[i].ID]
	}

	if res := s.orders.Validate(fields); !res.OK {
		writeJSON(w, http.StatusUnprocessableEntity, res)
		return
	}

	result, record, err := s.orders.Place(r.Context(), id, fields, req.FromUser, r.Header.Get("authorization-data"))
	if err != nil {
		if errors.Is(err, domain.ErrPreconditionViolated) {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		s.writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"order_id":    record.ID.String(),
		"invoice_url": result.InvoiceURL,
	})
}

func (s *Server) handleAdminOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	orders, err := s.orders.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) handleAdminOrdersExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	orders, err := s.orders.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	f, err := stock.ExportOrders(orders)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="orders.xlsx"`)
	if err := f.Write(w); err != nil {
		log.Error().Err(err).Msg("write orders export")
	}
}

func (s *Server) handleAdminProductsExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	products, err := s.catalog.Products(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	f, err := stock.ExportProducts(products)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="products.xlsx"`)
	if err := f.Write(w); err != nil {
		log.Error().Err(err).Msg("write products export")
	}
}

func (s *Server) handleAdminProductsImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	products, err := stock.ParseProducts(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	imported := 0
	for _, p := range products {
		if _, err := s.entry.AddProduct(r.Context(), p); err != nil {
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"imported": imported,
				"error":    err.Error(),
			})
			return
		}
		imported++
	}
	writeJSON(w, http.StatusOK, map[string]any{"imported": imported})
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		http.Error(w, "no session", http.StatusUnauthorized)
		return "", false
	}
	return c.Value, true
}

func (s *Server) writeUsecaseError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		http.Error(w, "session expired", http.StatusNotFound)
		return
	}
	writeError(w, http.StatusBadGateway, err)
}

func parseFilterSpec(r *http.Request) (domain.FilterSpec, error) {
	q := r.URL.Query()
	spec := domain.FilterSpec{
		SearchText:    q.Get("search"),
		SortKey:       domain.SortKey(q.Get("sort")),
		SortDirection: domain.SortNone,
	}
	switch q.Get("dir") {
	case "asc":
		spec.SortDirection = domain.SortAsc
	case "desc":
		spec.SortDirection = domain.SortDesc
	}
	if raw := q.Get("categories"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return domain.FilterSpec{}, err
			}
			spec.Categories = append(spec.Categories, id)
		}
	}
	if raw := q.Get("price_from"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.FilterSpec{}, err
		}
		spec.PriceFrom = &v
	}
	if raw := q.Get("price_to"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.FilterSpec{}, err
		}
		spec.PriceTo = &v
	}
	return spec, nil
}

func writeCartView(w http.ResponseWriter, state domain.CatalogState) {
	writeJSON(w, http.StatusOK, map[string]any{
		"items": state.Lines(),
		"total": domain.OrderTotal(state),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
