package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/custodia-labs/locfilter/internal/adapters/driven/form"
	"github.com/custodia-labs/locfilter/internal/core/domain"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// methodArgs is the union of query routine and lookup routine arguments.
// Frappe clients send filters either as an object or as a JSON string.
type methodArgs struct {
	Text       string          `json:"txt"`
	Start      int             `json:"start"`
	PageLength int             `json:"page_len"`
	Filters    json.RawMessage `json:"filters"`
}

// handleMethod serves /api/method/{method}. Lookup routines return address
// names; every other routine returns [[value, description], ...].
func (s *Server) handleMethod(w http.ResponseWriter, r *http.Request) {
	method := chi.URLParam(r, "method")
	bare := domain.UnqualifyQuery(method)

	_, rule, ok := domain.RuleForQuery(bare)
	if !ok {
		writeError(w, fmt.Errorf("%w: %s", domain.ErrUnknownQuery, method))
		return
	}

	raw, err := readArgs(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if bare == rule.AddressLookup {
		args := make(map[string]string, len(raw))
		for k, v := range raw {
			args[k] = stringArg(v)
		}
		names, err := s.ports.Router.Lookup(r.Context(), method, args)
		if err != nil {
			writeError(w, err)
			return
		}
		writeMessage(w, names)
		return
	}

	var params methodArgs
	if err := remarshal(raw, &params); err != nil {
		writeError(w, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err))
		return
	}
	filters, err := decodeFilters(params.Filters)
	if err != nil {
		writeError(w, err)
		return
	}

	options, err := s.ports.Router.Query(r.Context(), method, filters, domain.QueryOptions{
		Text:       params.Text,
		Start:      params.Start,
		PageLength: params.PageLength,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	rows := make([][]string, 0, len(options))
	for _, o := range options {
		rows = append(rows, []string{o.Value, o.Description})
	}
	writeMessage(w, rows)
}

// resolveRequest asks for the form actions after a location change.
// An empty Changed replays a form load.
type resolveRequest struct {
	Document domain.DocumentSnapshot `json:"document"`
	Changed  string                  `json:"changed,omitempty"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if s.ports.Forms == nil {
		writeError(w, domain.ErrNotImplemented)
		return
	}

	var req resolveRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	fillDeclaredFields(&req.Document)

	var (
		result *form.Result
		err    error
	)
	if req.Changed == "" {
		result, err = form.Refresh(r.Context(), s.ports.Forms, req.Document)
	} else {
		changed, perr := domain.ParseLocationType(req.Changed)
		if perr != nil {
			writeError(w, perr)
			return
		}
		result, err = form.Change(r.Context(), s.ports.Forms, req.Document, changed)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if s.ports.Validation == nil {
		writeError(w, domain.ErrNotImplemented)
		return
	}

	var snap domain.DocumentSnapshot
	if err := decodeBody(r, &snap); err != nil {
		writeError(w, err)
		return
	}
	fillDeclaredFields(&snap)

	fills, err := s.ports.Validation.Validate(r.Context(), &snap)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": true, "fills": fills})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.ports.Validation == nil {
		writeError(w, domain.ErrNotImplemented)
		return
	}

	var snap domain.DocumentSnapshot
	if err := decodeBody(r, &snap); err != nil {
		writeError(w, err)
		return
	}
	fillDeclaredFields(&snap)

	doc, err := s.ports.Validation.Save(r.Context(), &snap)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	if s.ports.Directory == nil {
		writeError(w, domain.ErrNotImplemented)
		return
	}

	locations, err := s.ports.Directory.ListLocations(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if locations == nil {
		locations = []domain.Location{}
	}
	writeJSON(w, http.StatusOK, locations)
}

func (s *Server) handleLocationWarehouses(w http.ResponseWriter, r *http.Request) {
	if s.ports.Warehouses == nil {
		writeError(w, domain.ErrNotImplemented)
		return
	}

	warehouses, err := s.ports.Warehouses.ValidWarehouses(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	if warehouses == nil {
		warehouses = []domain.Warehouse{}
	}
	writeJSON(w, http.StatusOK, warehouses)
}

// fillDeclaredFields declares the profile fields of known doctypes when the
// caller sent values without a field list.
func fillDeclaredFields(snap *domain.DocumentSnapshot) {
	if len(snap.Fields) > 0 {
		return
	}
	if profile, ok := domain.ProfileFor(snap.DocType); ok {
		snap.Fields = profile.DeclaredFields()
	}
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: decoding request body: %w", domain.ErrInvalidInput, err)
	}
	return nil
}

// readArgs collects method arguments from the JSON body of a POST or from
// the query string of a GET.
func readArgs(r *http.Request) (map[string]any, error) {
	args := make(map[string]any)
	if r.Method == http.MethodGet {
		for key, values := range r.URL.Query() {
			if len(values) > 0 {
				args[key] = values[0]
			}
		}
		return normaliseNumbers(args), nil
	}

	if err := decodeBody(r, &args); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, err
	}
	return normaliseNumbers(args), nil
}

// normaliseNumbers converts paging arguments sent as strings.
func normaliseNumbers(args map[string]any) map[string]any {
	for _, key := range []string{"start", "page_len"} {
		if s, ok := args[key].(string); ok {
			if n, err := strconv.Atoi(s); err == nil {
				args[key] = n
			}
		}
	}
	return args
}

func decodeFilters(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return map[string]any{}, nil
	}

	// A JSON string holding the filter object.
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		if encoded == "" {
			return map[string]any{}, nil
		}
		raw = json.RawMessage(encoded)
	}

	var filters map[string]any
	if err := json.Unmarshal(raw, &filters); err != nil {
		return nil, fmt.Errorf("%w: filters must be an object: %w", domain.ErrInvalidInput, err)
	}
	return filters, nil
}

func remarshal(in map[string]any, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func stringArg(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
