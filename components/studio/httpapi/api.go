package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	gocommand "github.com/goliatone/go-command"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/bayup/go-studio/components/studio"
	"github.com/bayup/go-studio/components/studio/commands"
)

// Executor is the transport-neutral surface the router adapters call.
type Executor interface {
	ApplyTemplate(ctx context.Context, req studio.ApplyTemplateRequest) error
	AddComponent(ctx context.Context, req studio.AddComponentRequest) (studio.Node, error)
	UpdateComponent(ctx context.Context, req studio.UpdateComponentRequest) (studio.Node, error)
	RemoveComponent(ctx context.Context, input commands.RemoveComponentInput) error
	MoveComponent(ctx context.Context, req studio.MoveComponentRequest) error
	SelectComponent(ctx context.Context, input commands.SelectComponentInput) error
	ConfigureEditor(ctx context.Context, input commands.ConfigureEditorInput) error
	ContinueCheckout(ctx context.Context, key studio.SessionKey, nodeID string) (studio.CheckoutStep, error)
	SavePage(ctx context.Context, input commands.SavePageInput) error
}

// Handlers exposes HTTP endpoints backed by shared commands.
type Handlers struct {
	Template  gocommand.Commander[studio.ApplyTemplateRequest]
	Add       gocommand.Commander[commands.AddComponentInput]
	Update    gocommand.Commander[commands.UpdateComponentInput]
	Remove    gocommand.Commander[commands.RemoveComponentInput]
	Move      gocommand.Commander[studio.MoveComponentRequest]
	Select    gocommand.Commander[commands.SelectComponentInput]
	Configure gocommand.Commander[commands.ConfigureEditorInput]
	Checkout  gocommand.Commander[commands.ContinueCheckoutInput]
	Save      gocommand.Commander[commands.SavePageInput]
}

var _ Executor = (*Handlers)(nil)

// NewHandlers wires every command against the studio service.
func NewHandlers(service *studio.Service, telemetry commands.Telemetry) *Handlers {
	return &Handlers{
		Template:  commands.NewApplyTemplateCommand(service, telemetry),
		Add:       commands.NewAddComponentCommand(service, telemetry),
		Update:    commands.NewUpdateComponentCommand(service, telemetry),
		Remove:    commands.NewRemoveComponentCommand(service, telemetry),
		Move:      commands.NewMoveComponentCommand(service, telemetry),
		Select:    commands.NewSelectComponentCommand(service),
		Configure: commands.NewConfigureEditorCommand(service),
		Checkout:  commands.NewContinueCheckoutCommand(service, telemetry),
		Save:      commands.NewSavePageCommand(service, telemetry),
	}
}

// AddComponentBody is the JSON body of an add request.
type AddComponentBody struct {
	Type     studio.ComponentType `json:"type"`
	Section  studio.SectionType   `json:"section,omitempty"`
	ParentID string               `json:"parent_id,omitempty"`
	Index    *int                 `json:"index,omitempty"`
}

// SelectBody is the JSON body of a select request.
type SelectBody struct {
	NodeID string `json:"node_id"`
}

// TemplateBody is the JSON body of a template request.
type TemplateBody struct {
	TemplateID string `json:"template_id"`
}

// SaveBody is the optional JSON body of a save request.
type SaveBody struct {
	Draft bool `json:"draft"`
}

// ApplyTemplate implements Executor.
func (h *Handlers) ApplyTemplate(ctx context.Context, req studio.ApplyTemplateRequest) error {
	return h.Template.Execute(ctx, req)
}

// AddComponent implements Executor.
func (h *Handlers) AddComponent(ctx context.Context, req studio.AddComponentRequest) (studio.Node, error) {
	var node studio.Node
	err := h.Add.Execute(ctx, commands.AddComponentInput{Request: req, Result: &node})
	return node, err
}

// UpdateComponent implements Executor.
func (h *Handlers) UpdateComponent(ctx context.Context, req studio.UpdateComponentRequest) (studio.Node, error) {
	var node studio.Node
	err := h.Update.Execute(ctx, commands.UpdateComponentInput{Request: req, Result: &node})
	return node, err
}

// RemoveComponent implements Executor.
func (h *Handlers) RemoveComponent(ctx context.Context, input commands.RemoveComponentInput) error {
	return h.Remove.Execute(ctx, input)
}

// MoveComponent implements Executor.
func (h *Handlers) MoveComponent(ctx context.Context, req studio.MoveComponentRequest) error {
	return h.Move.Execute(ctx, req)
}

// SelectComponent implements Executor.
func (h *Handlers) SelectComponent(ctx context.Context, input commands.SelectComponentInput) error {
	return h.Select.Execute(ctx, input)
}

// ConfigureEditor implements Executor.
func (h *Handlers) ConfigureEditor(ctx context.Context, input commands.ConfigureEditorInput) error {
	return h.Configure.Execute(ctx, input)
}

// ContinueCheckout implements Executor.
func (h *Handlers) ContinueCheckout(ctx context.Context, key studio.SessionKey, nodeID string) (studio.CheckoutStep, error) {
	var step studio.CheckoutStep
	err := h.Checkout.Execute(ctx, commands.ContinueCheckoutInput{Key: key, NodeID: nodeID, Result: &step})
	return step, err
}

// SavePage implements Executor.
func (h *Handlers) SavePage(ctx context.Context, input commands.SavePageInput) error {
	return h.Save.Execute(ctx, input)
}

func (h *Handlers) HandleApplyTemplate(w http.ResponseWriter, r *http.Request, tenantID string) {
	var payload TemplateBody
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.ApplyTemplate(r.Context(), studio.ApplyTemplateRequest{TenantID: tenantID, TemplateID: payload.TemplateID}); err != nil {
		WriteError(w, StatusFor(err), err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "applied", "template_id": payload.TemplateID})
}

func (h *Handlers) HandleAddComponent(w http.ResponseWriter, r *http.Request, key studio.SessionKey) {
	var payload AddComponentBody
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}
	node, err := h.AddComponent(r.Context(), payload.Request(key))
	if err != nil {
		WriteError(w, StatusFor(err), err)
		return
	}
	WriteJSON(w, http.StatusCreated, node)
}

func (h *Handlers) HandleUpdateComponent(w http.ResponseWriter, r *http.Request, key studio.SessionKey, nodeID string) {
	var patch studio.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}
	node, err := h.UpdateComponent(r.Context(), studio.UpdateComponentRequest{Key: key, NodeID: nodeID, Patch: patch})
	if err != nil {
		WriteError(w, StatusFor(err), err)
		return
	}
	WriteJSON(w, http.StatusOK, node)
}

func (h *Handlers) HandleRemoveComponent(w http.ResponseWriter, r *http.Request, key studio.SessionKey, nodeID string) {
	if err := h.RemoveComponent(r.Context(), commands.RemoveComponentInput{Key: key, NodeID: nodeID}); err != nil {
		WriteError(w, StatusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleMoveComponent(w http.ResponseWriter, r *http.Request, key studio.SessionKey, nodeID string) {
	var to studio.Position
	if err := json.NewDecoder(r.Body).Decode(&to); err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.MoveComponent(r.Context(), studio.MoveComponentRequest{Key: key, NodeID: nodeID, To: to}); err != nil {
		WriteError(w, StatusFor(err), err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "moved"})
}

func (h *Handlers) HandleSelect(w http.ResponseWriter, r *http.Request, key studio.SessionKey) {
	var payload SelectBody
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.SelectComponent(r.Context(), commands.SelectComponentInput{Key: key, NodeID: payload.NodeID}); err != nil {
		WriteError(w, StatusFor(err), err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "selected", "node_id": payload.NodeID})
}

func (h *Handlers) HandleConfigure(w http.ResponseWriter, r *http.Request, key studio.SessionKey) {
	var settings studio.EditorSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.ConfigureEditor(r.Context(), commands.ConfigureEditorInput{Key: key, Settings: settings}); err != nil {
		WriteError(w, StatusFor(err), err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "configured"})
}

func (h *Handlers) HandleContinueCheckout(w http.ResponseWriter, r *http.Request, key studio.SessionKey, nodeID string) {
	step, err := h.ContinueCheckout(r.Context(), key, nodeID)
	if err != nil {
		WriteError(w, StatusFor(err), err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"step": int(step), "name": step.String(), "label": step.Label()})
}

func (h *Handlers) HandleSave(w http.ResponseWriter, r *http.Request, key studio.SessionKey) {
	var payload SaveBody
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		WriteError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.SavePage(r.Context(), commands.SavePageInput{Key: key, Draft: payload.Draft}); err != nil {
		WriteError(w, StatusFor(err), err)
		return
	}
	status := "saved"
	if payload.Draft {
		status = "draft"
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": status})
}

// Request builds the service request for key.
func (b AddComponentBody) Request(key studio.SessionKey) studio.AddComponentRequest {
	return studio.AddComponentRequest{
		Key:      key,
		Type:     b.Type,
		Section:  b.Section,
		ParentID: b.ParentID,
		Index:    b.Index,
	}
}

// StatusFor maps studio errors to HTTP status codes.
func StatusFor(err error) int {
	var validation *jsonschema.ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, studio.ErrNodeNotFound), errors.Is(err, studio.ErrPageNotFound):
		return http.StatusNotFound
	case errors.As(err, &validation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, studio.ErrMissingTenant),
		errors.Is(err, studio.ErrMissingNodeID),
		errors.Is(err, studio.ErrUnknownPage),
		errors.Is(err, studio.ErrUnknownSection),
		errors.Is(err, studio.ErrUnknownComponentType),
		errors.Is(err, studio.ErrNotContainer),
		errors.Is(err, studio.ErrInvalidMove),
		errors.Is(err, studio.ErrNotCheckout),
		errors.Is(err, studio.ErrInvalidSettings),
		errors.Is(err, studio.ErrDuplicateNodeID):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// WriteJSON encodes v with status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError answers {"error": ...}.
func WriteError(w http.ResponseWriter, status int, err error) {
	WriteJSON(w, status, map[string]string{"error": err.Error()})
}
