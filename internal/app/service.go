package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"tradedocs/api/internal/config"
	"tradedocs/api/internal/docmodel"
	"tradedocs/api/internal/engine"
	"tradedocs/api/internal/registry"
	"tradedocs/api/internal/search"
	"tradedocs/api/internal/store"
	"tradedocs/api/internal/template"
)

type dataStore interface {
	Ping(context.Context) error
	CreateTrade(ctx context.Context, name string, slots []string) (store.Trade, error)
	GetTrade(ctx context.Context, tradeID string) (store.Trade, error)
	ListTrades(ctx context.Context) ([]store.Trade, error)
	DeleteTrade(ctx context.Context, tradeID string) error
	ListDocuments(ctx context.Context, tradeID string) ([]store.Document, error)
	GetDocument(ctx context.Context, tradeID, slot string) (store.Document, error)
	SetDocumentContent(ctx context.Context, tradeID, slot string, content *string) error
	SetDocumentMode(ctx context.Context, tradeID, slot, mode string) error
	SetDocumentUpload(ctx context.Context, tradeID, slot, uploadName, uploadStatus string) error
}

type versionStore interface {
	EnsureTradeRepo(tradeID string) error
	CommitSnapshot(tradeID string, docs map[string]string, message string) (store.VersionInfo, error)
	History(tradeID string, limit int) ([]store.VersionInfo, error)
	SnapshotAt(tradeID, hash string) (map[string]string, error)
	DeleteTradeRepo(tradeID string) error
}

type registryStore interface {
	Load(ctx context.Context, tradeID string) (*registry.Registry, error)
	Save(ctx context.Context, tradeID string, reg *registry.Registry) error
	Delete(ctx context.Context, tradeID string) error
}

type searchService interface {
	Search(q search.Query) search.Response
	IndexTrade(record search.TradeRecord)
	DeleteTrade(id string)
}

// Service wires the stores and the document engine together. It owns the
// save pipeline: guards, registry rebuild, cross-document propagation,
// version snapshots and search indexing.
type Service struct {
	store      dataStore
	versions   versionStore
	registries registryStore
	search     searchService
	cfg        config.Config

	genMu       sync.Mutex
	generations map[string]uint64
}

func New(data dataStore, versions versionStore, registries registryStore, searcher searchService, cfg config.Config) *Service {
	return &Service{
		store:       data,
		versions:    versions,
		registries:  registries,
		search:      searcher,
		cfg:         cfg,
		generations: map[string]uint64{},
	}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// StepStatus describes one workflow step on the dashboard.
type StepStatus struct {
	Slot         string `json:"slot"`
	Started      bool   `json:"started"`
	Complete     bool   `json:"complete"`
	Mode         string `json:"mode"`
	UploadName   string `json:"uploadName,omitempty"`
	UploadStatus string `json:"uploadStatus,omitempty"`
}

// TradeSummary is one dashboard row.
type TradeSummary struct {
	Trade store.Trade  `json:"trade"`
	Steps []StepStatus `json:"steps"`
}

// DocumentView is a document as served to the editor.
type DocumentView struct {
	Slot         string `json:"slot"`
	Content      string `json:"content"`
	Mode         string `json:"mode"`
	UploadName   string `json:"uploadName,omitempty"`
	UploadStatus string `json:"uploadStatus,omitempty"`
	Complete     bool   `json:"complete"`
}

// SaveResult reports what one save changed.
type SaveResult struct {
	Content     string   `json:"content"`
	Complete    bool     `json:"complete"`
	DeletedRows []string `json:"deletedRows,omitempty"`
}

// AgentResult reports which assistant changes landed.
type AgentResult struct {
	Applied []string `json:"applied"`
	Ignored []string `json:"ignored,omitempty"`
	Content string   `json:"content"`
}

// CreateTrade creates a trade with one empty document per workflow step and
// its version repository.
func (s *Service) CreateTrade(ctx context.Context, name string) (store.Trade, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return store.Trade{}, domainError(http.StatusBadRequest, "INVALID_NAME", "Trade name is required", nil)
	}

	trade, err := s.store.CreateTrade(ctx, name, slotStrings())
	if err != nil {
		return store.Trade{}, fmt.Errorf("create trade: %w", err)
	}
	if err := s.versions.EnsureTradeRepo(trade.ID); err != nil {
		return store.Trade{}, fmt.Errorf("init trade repo: %w", err)
	}
	s.indexTrade(trade, "")
	return trade, nil
}

// Dashboard lists every trade with its per-step status.
func (s *Service) Dashboard(ctx context.Context) ([]TradeSummary, error) {
	trades, err := s.store.ListTrades(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]TradeSummary, 0, len(trades))
	for _, trade := range trades {
		steps, err := s.StepStatuses(ctx, trade.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, TradeSummary{Trade: trade, Steps: steps})
	}
	return summaries, nil
}

// TradeDetail returns one trade with its step statuses.
func (s *Service) TradeDetail(ctx context.Context, tradeID string) (TradeSummary, error) {
	trade, err := s.store.GetTrade(ctx, tradeID)
	if err != nil {
		return TradeSummary{}, err
	}
	steps, err := s.StepStatuses(ctx, tradeID)
	if err != nil {
		return TradeSummary{}, err
	}
	return TradeSummary{Trade: trade, Steps: steps}, nil
}

// StepStatuses computes the workflow state of one trade.
func (s *Service) StepStatuses(ctx context.Context, tradeID string) ([]StepStatus, error) {
	st, err := s.loadState(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	steps := make([]StepStatus, 0, len(template.Order))
	for _, slot := range template.Order {
		doc, ok := st.bySlot[string(slot)]
		if !ok {
			continue
		}
		status := StepStatus{
			Slot:         doc.Slot,
			Started:      doc.Content != nil || doc.Mode == store.ModeSkip,
			Mode:         doc.Mode,
			UploadName:   doc.UploadName,
			UploadStatus: doc.UploadStatus,
		}
		switch {
		case doc.Mode == store.ModeSkip:
			status.Complete = true
		case doc.Mode == store.ModeUpload && doc.UploadStatus == store.UploadMapped:
			status.Complete = true
		case doc.Content != nil:
			status.Complete = engine.IsComplete(st.parsed[slot])
		}
		steps = append(steps, status)
	}
	return steps, nil
}

// GetDocument serves one document to the editor. A manual step opened for the
// first time is hydrated from its template and the shared registry; an
// existing document gets the current registry values pushed into it first.
func (s *Service) GetDocument(ctx context.Context, tradeID, slot string) (DocumentView, error) {
	sl, ok := validSlot(slot)
	if !ok {
		return DocumentView{}, domainError(http.StatusBadRequest, "INVALID_SLOT", "Unknown document slot", nil)
	}
	st, err := s.loadState(ctx, tradeID)
	if err != nil {
		return DocumentView{}, err
	}
	doc, ok := st.bySlot[slot]
	if !ok {
		return DocumentView{}, domainError(http.StatusNotFound, "NOT_FOUND", "Document not found", nil)
	}

	if doc.Mode == store.ModeSkip {
		return DocumentView{Slot: slot, Mode: doc.Mode, Complete: true}, nil
	}
	if doc.Content == nil && doc.Mode == store.ModeUpload {
		return DocumentView{Slot: slot, Mode: doc.Mode, UploadName: doc.UploadName, UploadStatus: doc.UploadStatus}, nil
	}

	values := s.registryValues(ctx, tradeID, st)

	if doc.Content == nil {
		if err := s.requirePreviousSteps(st, sl); err != nil {
			return DocumentView{}, err
		}
		node, err := docmodel.Parse(template.Hydrate(template.ForSlot(sl), values))
		if err != nil {
			return DocumentView{}, fmt.Errorf("hydrate %s: %w", slot, err)
		}
		engine.RunGuards(node, "")
		s.applyCascade(st, sl, node)
		content := docmodel.Render(node)
		if err := s.store.SetDocumentContent(ctx, tradeID, slot, &content); err != nil {
			return DocumentView{}, err
		}
		st.setContent(sl, node, content)
		s.snapshot(tradeID, st, "Start "+slot)
		return DocumentView{Slot: slot, Content: content, Mode: doc.Mode, Complete: engine.IsComplete(node)}, nil
	}

	node := st.parsed[sl]
	if node == nil {
		return DocumentView{}, domainError(http.StatusUnprocessableEntity, "INVALID_CONTENT", "Stored document does not parse", nil)
	}
	changed := engine.ApplyRegistry(node, values)
	if s.applyCascade(st, sl, node) {
		changed = true
	}
	if engine.RunGuards(node, "") {
		changed = true
	}
	content := docmodel.Render(node)
	if changed && content != *doc.Content {
		if err := s.store.SetDocumentContent(ctx, tradeID, slot, &content); err != nil {
			return DocumentView{}, err
		}
		st.setContent(sl, node, content)
		s.snapshot(tradeID, st, "Sync "+slot)
	}
	return DocumentView{
		Slot:         slot,
		Content:      content,
		Mode:         doc.Mode,
		UploadName:   doc.UploadName,
		UploadStatus: doc.UploadStatus,
		Complete:     engine.IsComplete(node),
	}, nil
}

// SaveDocument is the checkpoint pipeline: run the integrity guards on the
// incoming content, replicate row deletions, rebuild the shared registry
// under the sequential workflow guard, propagate values and the payment
// cascade into the other documents, snapshot and index.
func (s *Service) SaveDocument(ctx context.Context, tradeID, slot, content, editedFieldID string) (SaveResult, error) {
	sl, ok := validSlot(slot)
	if !ok {
		return SaveResult{}, domainError(http.StatusBadRequest, "INVALID_SLOT", "Unknown document slot", nil)
	}
	if strings.TrimSpace(content) == "" {
		return SaveResult{}, domainError(http.StatusBadRequest, "INVALID_CONTENT", "Document content is required", nil)
	}

	st, err := s.loadState(ctx, tradeID)
	if err != nil {
		return SaveResult{}, err
	}
	doc, ok := st.bySlot[slot]
	if !ok {
		return SaveResult{}, domainError(http.StatusNotFound, "NOT_FOUND", "Document not found", nil)
	}

	node, err := docmodel.Parse(content)
	if err != nil {
		return SaveResult{}, domainError(http.StatusBadRequest, "INVALID_CONTENT", "Document content does not parse", nil)
	}

	tx := engine.Begin(node)
	tx.Commit(editedFieldID)

	var deletedRows []string
	if doc.Content != nil {
		if prev, err := docmodel.Parse(*doc.Content); err == nil {
			deletedRows = engine.DiffDeletedRows(prev, node)
		}
	}

	rendered := docmodel.Render(node)
	if err := s.store.SetDocumentContent(ctx, tradeID, slot, &rendered); err != nil {
		return SaveResult{}, err
	}
	st.setContent(sl, node, rendered)

	if err := s.propagate(ctx, tradeID, st, sl, deletedRows); err != nil {
		return SaveResult{}, err
	}

	s.snapshot(tradeID, st, "Save "+slot)
	s.indexState(ctx, tradeID, st)

	final := st.parsed[sl]
	return SaveResult{
		Content:     docmodel.Render(final),
		Complete:    engine.IsComplete(final),
		DeletedRows: deletedRows,
	}, nil
}

// AddRow clones the template row of the named document and replicates the
// addition into every other started document.
func (s *Service) AddRow(ctx context.Context, tradeID, slot string) ([]string, error) {
	sl, ok := validSlot(slot)
	if !ok {
		return nil, domainError(http.StatusBadRequest, "INVALID_SLOT", "Unknown document slot", nil)
	}
	st, err := s.loadState(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	node := st.parsed[sl]
	if node == nil {
		return nil, domainError(http.StatusConflict, "STEP_NOT_STARTED", "Document has no content yet", nil)
	}

	newIDs, ok := engine.AddRowAfter(node)
	if !ok {
		return nil, domainError(http.StatusUnprocessableEntity, "NO_TEMPLATE_ROW", "Document has no item row to clone", nil)
	}
	engine.Recalculate(node)
	if err := s.persist(ctx, tradeID, st, sl); err != nil {
		return nil, err
	}

	values := s.registryValues(ctx, tradeID, st)
	for _, other := range template.Order {
		if other == sl {
			continue
		}
		hydrated := false
		if st.parsed[other] == nil {
			if !s.hydrateSlot(tradeID, st, other, values) {
				continue
			}
			hydrated = true
		}
		if engine.ReplicateRowAdd(st.parsed[other], newIDs) {
			engine.Recalculate(st.parsed[other])
			hydrated = true
		}
		if hydrated {
			if err := s.persist(ctx, tradeID, st, other); err != nil {
				return nil, err
			}
		}
	}

	s.snapshot(tradeID, st, "Add row to "+slot)
	return newIDs, nil
}

// DeleteRows removes item rows by their field ids from every started
// document of the trade.
func (s *Service) DeleteRows(ctx context.Context, tradeID string, fieldIDs []string) error {
	if len(fieldIDs) == 0 {
		return domainError(http.StatusBadRequest, "INVALID_FIELDS", "Field ids are required", nil)
	}
	st, err := s.loadState(ctx, tradeID)
	if err != nil {
		return err
	}
	removed := false
	for _, slot := range template.Order {
		node := st.parsed[slot]
		if node == nil {
			continue
		}
		if engine.DeleteRowsByFields(node, fieldIDs) {
			engine.Recalculate(node)
			if err := s.persist(ctx, tradeID, st, slot); err != nil {
				return err
			}
			removed = true
		}
	}
	if removed {
		s.snapshot(tradeID, st, "Delete rows")
	}
	return nil
}

// ApplyAgentChanges writes an ordered assistant change batch into a document.
// When the step is waiting on an upload mapping the call polls briefly for
// the mapping to finish; values for unknown or computed fields are ignored.
func (s *Service) ApplyAgentChanges(ctx context.Context, tradeID, slot string, changes []engine.FieldChange) (AgentResult, error) {
	sl, ok := validSlot(slot)
	if !ok {
		return AgentResult{}, domainError(http.StatusBadRequest, "INVALID_SLOT", "Unknown document slot", nil)
	}
	if len(changes) == 0 {
		return AgentResult{}, domainError(http.StatusBadRequest, "INVALID_FIELDS", "Field changes are required", nil)
	}

	gen := s.generation(tradeID)
	s.waitForMapping(ctx, tradeID, slot)

	st, err := s.loadState(ctx, tradeID)
	if err != nil {
		return AgentResult{}, err
	}
	node := st.parsed[sl]
	if node == nil {
		return AgentResult{}, domainError(http.StatusConflict, "STEP_NOT_STARTED", "Document has no content yet", nil)
	}
	if s.generation(tradeID) != gen {
		return AgentResult{}, domainError(http.StatusConflict, "TRADE_RESTORED", "Trade was restored while changes were pending", nil)
	}

	applied, ignored := engine.ApplyAgentValues(node, changes)

	engine.RunGuards(node, "")
	rendered := docmodel.Render(node)
	if err := s.store.SetDocumentContent(ctx, tradeID, slot, &rendered); err != nil {
		return AgentResult{}, err
	}
	st.setContent(sl, node, rendered)

	if err := s.propagate(ctx, tradeID, st, sl, nil); err != nil {
		return AgentResult{}, err
	}
	s.snapshot(tradeID, st, "Assistant update "+slot)
	s.indexState(ctx, tradeID, st)

	return AgentResult{
		Applied: applied,
		Ignored: ignored,
		Content: docmodel.Render(st.parsed[sl]),
	}, nil
}

// SetMode switches a step between manual, upload and skip.
func (s *Service) SetMode(ctx context.Context, tradeID, slot, mode, uploadName string) error {
	if _, ok := validSlot(slot); !ok {
		return domainError(http.StatusBadRequest, "INVALID_SLOT", "Unknown document slot", nil)
	}
	switch mode {
	case store.ModeManual, store.ModeSkip:
		if err := s.store.SetDocumentMode(ctx, tradeID, slot, mode); err != nil {
			return err
		}
		return s.store.SetDocumentUpload(ctx, tradeID, slot, "", "")
	case store.ModeUpload:
		if strings.TrimSpace(uploadName) == "" {
			return domainError(http.StatusBadRequest, "INVALID_UPLOAD", "Upload file name is required", nil)
		}
		if err := s.store.SetDocumentMode(ctx, tradeID, slot, mode); err != nil {
			return err
		}
		return s.store.SetDocumentUpload(ctx, tradeID, slot, uploadName, store.UploadPending)
	default:
		return domainError(http.StatusBadRequest, "INVALID_MODE", "Unknown document mode", nil)
	}
}

// CompleteUpload stores the mapped content of an uploaded document and runs
// the save pipeline over it.
func (s *Service) CompleteUpload(ctx context.Context, tradeID, slot, content string) (SaveResult, error) {
	doc, err := s.store.GetDocument(ctx, tradeID, slot)
	if err != nil {
		return SaveResult{}, err
	}
	if doc.Mode != store.ModeUpload {
		return SaveResult{}, domainError(http.StatusConflict, "NOT_UPLOAD_STEP", "Document is not in upload mode", nil)
	}
	if err := s.store.SetDocumentUpload(ctx, tradeID, slot, doc.UploadName, store.UploadMapped); err != nil {
		return SaveResult{}, err
	}
	return s.SaveDocument(ctx, tradeID, slot, content, "")
}

// History lists the trade's version timeline.
func (s *Service) History(ctx context.Context, tradeID string, limit int) ([]store.VersionInfo, error) {
	if _, err := s.store.GetTrade(ctx, tradeID); err != nil {
		return nil, err
	}
	return s.versions.History(tradeID, limit)
}

// RestoreVersion rewinds every document of the trade to one snapshot. Slots
// without a file in the snapshot return to the not-started state. The shared
// registry is dropped and rebuilt from the restored documents, and pending
// assistant writes against the old state are fenced off.
func (s *Service) RestoreVersion(ctx context.Context, tradeID, hash string) error {
	if _, err := s.store.GetTrade(ctx, tradeID); err != nil {
		return err
	}
	snap, err := s.versions.SnapshotAt(tradeID, hash)
	if err != nil {
		return domainError(http.StatusNotFound, "VERSION_NOT_FOUND", "Version not found", nil)
	}

	s.bumpGeneration(tradeID)

	for _, slot := range template.Order {
		if content, ok := snap[string(slot)]; ok {
			c := content
			if err := s.store.SetDocumentContent(ctx, tradeID, string(slot), &c); err != nil {
				return err
			}
		} else {
			if err := s.store.SetDocumentContent(ctx, tradeID, string(slot), nil); err != nil {
				return err
			}
		}
	}

	if err := s.registries.Delete(ctx, tradeID); err != nil {
		log.Printf("restore: drop registry for %s: %v", tradeID, err)
	}
	st, err := s.loadState(ctx, tradeID)
	if err != nil {
		return err
	}
	values := registry.Rebuild(st.parsed)
	s.saveRegistry(ctx, tradeID, values)
	s.snapshot(tradeID, st, "Restore "+hash)
	s.indexState(ctx, tradeID, st)
	return nil
}

// DeleteTrade removes the trade, its version repository, registry and search
// record.
func (s *Service) DeleteTrade(ctx context.Context, tradeID string) error {
	if err := s.store.DeleteTrade(ctx, tradeID); err != nil {
		return err
	}
	if err := s.versions.DeleteTradeRepo(tradeID); err != nil {
		log.Printf("delete trade: repo %s: %v", tradeID, err)
	}
	if err := s.registries.Delete(ctx, tradeID); err != nil {
		log.Printf("delete trade: registry %s: %v", tradeID, err)
	}
	if s.search != nil {
		s.search.DeleteTrade(tradeID)
	}
	return nil
}

// Search runs the dashboard trade search.
func (s *Service) Search(q search.Query) search.Response {
	if s.search == nil {
		return search.Response{Results: []search.Result{}, Query: q.Text}
	}
	return s.search.Search(q)
}

// --- pipeline internals ---

// tradeState is one trade's documents, parsed where content exists. Skipped
// steps carry an empty node so the sequential guard passes over them.
type tradeState struct {
	bySlot map[string]store.Document
	parsed map[template.Slot]*docmodel.Node
}

func (st *tradeState) setContent(slot template.Slot, node *docmodel.Node, content string) {
	st.parsed[slot] = node
	doc := st.bySlot[string(slot)]
	doc.Content = &content
	st.bySlot[string(slot)] = doc
}

func (s *Service) loadState(ctx context.Context, tradeID string) (*tradeState, error) {
	docs, err := s.store.ListDocuments(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, domainError(http.StatusNotFound, "NOT_FOUND", "Trade not found", nil)
	}
	st := &tradeState{
		bySlot: map[string]store.Document{},
		parsed: map[template.Slot]*docmodel.Node{},
	}
	for _, doc := range docs {
		st.bySlot[doc.Slot] = doc
		slot := template.Slot(doc.Slot)
		if doc.Content != nil {
			node, err := docmodel.Parse(*doc.Content)
			if err != nil {
				log.Printf("trade %s: document %s does not parse: %v", tradeID, doc.Slot, err)
				continue
			}
			st.parsed[slot] = node
		} else if doc.Mode == store.ModeSkip {
			st.parsed[slot] = &docmodel.Node{}
		}
	}
	return st, nil
}

// propagate rebuilds the registry from the trade's documents and pushes the
// values, the payment cascade and recalculation into every started document,
// persisting the ones that changed.
func (s *Service) propagate(ctx context.Context, tradeID string, st *tradeState, edited template.Slot, deletedRows []string) error {
	values := registry.Rebuild(st.parsed)
	s.saveRegistry(ctx, tradeID, values)

	for _, slot := range template.Order {
		node := st.parsed[slot]
		if node == nil || len(node.Children) == 0 {
			continue
		}
		changed := false
		if slot != edited && len(deletedRows) > 0 {
			if engine.DeleteRowsByFields(node, deletedRows) {
				changed = true
			}
		}
		if engine.ApplyRegistry(node, values) {
			changed = true
		}
		if s.applyCascade(st, slot, node) {
			changed = true
		}
		if engine.SyncLinkedFieldState(node) {
			changed = true
		}
		if engine.Recalculate(node) {
			changed = true
		}
		if changed {
			if err := s.persist(ctx, tradeID, st, slot); err != nil {
				return err
			}
		}
	}
	return nil
}

// applyCascade stamps or clears the letter-of-credit fields of a downstream
// document based on the contract's selected payment term.
func (s *Service) applyCascade(st *tradeState, slot template.Slot, node *docmodel.Node) bool {
	if slot != template.SlotCI && slot != template.SlotPL {
		return false
	}
	contract := st.parsed[template.SlotContract]
	if contract == nil {
		return false
	}
	cat := engine.SelectedPaymentCategory(contract)
	return engine.ApplyPaymentCascade(node, string(slot), cat)
}

// hydrateSlot builds a not-yet-started manual document from its template so a
// replicated row has somewhere to land. Skipped and upload steps are left
// alone. Returns true when the in-memory state now holds a parsed document.
func (s *Service) hydrateSlot(tradeID string, st *tradeState, slot template.Slot, values map[string]string) bool {
	doc, ok := st.bySlot[string(slot)]
	if !ok || doc.Content != nil || doc.Mode != store.ModeManual {
		return false
	}
	node, err := docmodel.Parse(template.Hydrate(template.ForSlot(slot), values))
	if err != nil {
		log.Printf("trade %s: hydrate %s: %v", tradeID, slot, err)
		return false
	}
	engine.RunGuards(node, "")
	s.applyCascade(st, slot, node)
	st.parsed[slot] = node
	return true
}

func (s *Service) persist(ctx context.Context, tradeID string, st *tradeState, slot template.Slot) error {
	node := st.parsed[slot]
	content := docmodel.Render(node)
	stored := st.bySlot[string(slot)]
	if stored.Content != nil && *stored.Content == content {
		return nil
	}
	if err := s.store.SetDocumentContent(ctx, tradeID, string(slot), &content); err != nil {
		return err
	}
	st.setContent(slot, node, content)
	return nil
}

// snapshot commits the started documents into the version repository.
// Failures are logged, not fatal: the database already holds the state.
func (s *Service) snapshot(tradeID string, st *tradeState, message string) {
	docs := map[string]string{}
	for _, slot := range template.Order {
		doc, ok := st.bySlot[string(slot)]
		if !ok || doc.Content == nil {
			continue
		}
		docs[string(slot)] = *doc.Content
	}
	if _, err := s.versions.CommitSnapshot(tradeID, docs, message); err != nil {
		log.Printf("snapshot %s: %v", tradeID, err)
	}
}

// registryValues serves the cached registry when one is saved, falling back
// to a rebuild from the trade's documents.
func (s *Service) registryValues(ctx context.Context, tradeID string, st *tradeState) map[string]string {
	if reg, err := s.registries.Load(ctx, tradeID); err == nil {
		if values := reg.Snapshot(); len(values) > 0 {
			return values
		}
	}
	values := registry.Rebuild(st.parsed)
	s.saveRegistry(ctx, tradeID, values)
	return values
}

func (s *Service) saveRegistry(ctx context.Context, tradeID string, values map[string]string) {
	if err := s.registries.Save(ctx, tradeID, registry.FromValues(values)); err != nil {
		log.Printf("save registry %s: %v", tradeID, err)
	}
}

func (s *Service) indexTrade(trade store.Trade, body string) {
	if s.search == nil {
		return
	}
	s.search.IndexTrade(search.TradeRecord{
		ID:        trade.ID,
		Name:      trade.Name,
		Body:      body,
		UpdatedAt: trade.UpdatedAt.Unix(),
	})
}

func (s *Service) indexState(ctx context.Context, tradeID string, st *tradeState) {
	trade, err := s.store.GetTrade(ctx, tradeID)
	if err != nil {
		return
	}
	values := registry.Rebuild(st.parsed)
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, v)
	}
	s.indexTrade(trade, strings.Join(parts, " "))
}

// requirePreviousSteps enforces the sequential workflow: a step can only be
// started once every earlier step is complete, skipped, or covered by a
// mapped upload. Uploaded documents are not field-scanned for gating.
func (s *Service) requirePreviousSteps(st *tradeState, slot template.Slot) error {
	for _, prev := range template.Order {
		if prev == slot {
			return nil
		}
		doc, ok := st.bySlot[string(prev)]
		if !ok {
			continue
		}
		if doc.Mode == store.ModeSkip {
			continue
		}
		if doc.Mode == store.ModeUpload && doc.UploadStatus == store.UploadMapped {
			continue
		}
		if doc.Content == nil || !engine.IsComplete(st.parsed[prev]) {
			return domainError(http.StatusConflict, "STEP_LOCKED",
				fmt.Sprintf("Step %s must be completed first", prev), nil)
		}
	}
	return nil
}

// waitForMapping polls briefly while an upload mapping is pending. Best
// effort: when the deadline passes the caller proceeds against whatever
// state is there.
func (s *Service) waitForMapping(ctx context.Context, tradeID, slot string) {
	doc, err := s.store.GetDocument(ctx, tradeID, slot)
	if err != nil || doc.UploadStatus != store.UploadPending {
		return
	}
	timeout := s.cfg.MappingWaitTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	interval := s.cfg.MappingPollInterval
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
		doc, err = s.store.GetDocument(ctx, tradeID, slot)
		if err != nil || doc.UploadStatus != store.UploadPending {
			return
		}
	}
}

func (s *Service) generation(tradeID string) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.generations[tradeID]
}

func (s *Service) bumpGeneration(tradeID string) {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	s.generations[tradeID]++
}

func slotStrings() []string {
	out := make([]string, len(template.Order))
	for i, slot := range template.Order {
		out[i] = string(slot)
	}
	return out
}

func validSlot(slot string) (template.Slot, bool) {
	for _, s := range template.Order {
		if string(s) == slot {
			return s, true
		}
	}
	return "", false
}

