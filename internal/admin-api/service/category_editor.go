package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ebookstore/internal/admin-api/models"
	"ebookstore/internal/admin-api/repository"
)

var (
	ErrDuplicateCategoryName = errors.New("category name already exists")
	ErrUnknownCategory       = errors.New("category not found in editing session")
)

// NoChangesMessage is reported when a save has nothing pending.
const NoChangesMessage = "no changes"

type editorItem struct {
	ID   string
	Name string
	Type string
}

// CategoryEditor buffers category list edits in memory and defers all
// writes until Save, which commits everything in one batch. It tracks four
// name sets (existing and pending-new, per type), the removals queued so
// far, and the pending type changes keyed by category id.
type CategoryEditor struct {
	repo repository.CategoryRepository

	existingStandard map[string]editorItem // normalized name -> item
	existingFeatured map[string]editorItem
	newStandard      map[string]string // normalized name -> display name
	newFeatured      map[string]string

	removed     []repository.CategoryRemoval
	typeChanges map[string]string // category id -> new type
}

// NewCategoryEditor opens an editing session over the given existing
// categories.
func NewCategoryEditor(repo repository.CategoryRepository, existing []models.Category) *CategoryEditor {
	e := &CategoryEditor{
		repo:             repo,
		existingStandard: make(map[string]editorItem),
		existingFeatured: make(map[string]editorItem),
		newStandard:      make(map[string]string),
		newFeatured:      make(map[string]string),
		typeChanges:      make(map[string]string),
	}
	for _, c := range existing {
		item := editorItem{ID: c.ID, Name: c.Name, Type: c.Type}
		key := models.NormalizeCategoryName(c.Name)
		if c.Type == models.CategoryTypeFeatured {
			e.existingFeatured[key] = item
		} else {
			e.existingStandard[key] = item
		}
	}
	return e
}

// Add queues one new category name under the given type. A name already
// present in any of the four sets is rejected with
// ErrDuplicateCategoryName; callers treat that as a warning, not a failure.
func (e *CategoryEditor) Add(name, categoryType string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrCategoryNameRequired
	}
	if err := validateCategoryType(categoryType); err != nil {
		return err
	}

	key := models.NormalizeCategoryName(trimmed)
	if e.nameExists(key) {
		return fmt.Errorf("%w: %q", ErrDuplicateCategoryName, trimmed)
	}

	if categoryType == models.CategoryTypeFeatured {
		e.newFeatured[key] = trimmed
	} else {
		e.newStandard[key] = trimmed
	}
	return nil
}

// AddBatch splits a comma-separated entry and queues each name. Duplicate
// or empty names come back as warnings; the rest are added.
func (e *CategoryEditor) AddBatch(entry, categoryType string) (added []string, warnings []string) {
	for _, name := range strings.Split(entry, ",") {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		if err := e.Add(trimmed, categoryType); err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		added = append(added, trimmed)
	}
	return added, warnings
}

// Move transfers an existing category to the other type, recording a
// pending type change. A later move of the same category overwrites the
// earlier pending change.
func (e *CategoryEditor) Move(id, toType string) error {
	if err := validateCategoryType(toType); err != nil {
		return err
	}

	key, item, ok := e.findExisting(id)
	if !ok {
		return ErrUnknownCategory
	}
	if item.Type == toType {
		return nil
	}

	if item.Type == models.CategoryTypeFeatured {
		delete(e.existingFeatured, key)
	} else {
		delete(e.existingStandard, key)
	}
	item.Type = toType
	if toType == models.CategoryTypeFeatured {
		e.existingFeatured[key] = item
	} else {
		e.existingStandard[key] = item
	}

	e.typeChanges[id] = toType
	return nil
}

// Remove queues an existing category for deletion, keeping its original
// identifier and name for the save.
func (e *CategoryEditor) Remove(id string) error {
	key, item, ok := e.findExisting(id)
	if !ok {
		return ErrUnknownCategory
	}

	if item.Type == models.CategoryTypeFeatured {
		delete(e.existingFeatured, key)
	} else {
		delete(e.existingStandard, key)
	}
	delete(e.typeChanges, id)

	e.removed = append(e.removed, repository.CategoryRemoval{
		ID:   item.ID,
		Name: item.Name,
		Type: item.Type,
	})
	return nil
}

// RemovePending drops a name that was added earlier in this same session.
// The removal is still queued without an identifier so that save can clean
// up a record persisted by a concurrent session, matching by name.
func (e *CategoryEditor) RemovePending(name, categoryType string) error {
	key := models.NormalizeCategoryName(name)

	var display string
	var ok bool
	if categoryType == models.CategoryTypeFeatured {
		display, ok = e.newFeatured[key]
		delete(e.newFeatured, key)
	} else {
		display, ok = e.newStandard[key]
		delete(e.newStandard, key)
	}
	if !ok {
		return ErrUnknownCategory
	}

	e.removed = append(e.removed, repository.CategoryRemoval{
		Name: display,
		Type: categoryType,
	})
	return nil
}

// HasChanges reports whether anything is pending.
func (e *CategoryEditor) HasChanges() bool {
	return len(e.newStandard) > 0 || len(e.newFeatured) > 0 ||
		len(e.removed) > 0 || len(e.typeChanges) > 0
}

// Save commits every pending addition, type change and removal as a single
// batch. With nothing pending it is a no-op reporting "no changes".
func (e *CategoryEditor) Save(ctx context.Context) (string, error) {
	if !e.HasChanges() {
		return NoChangesMessage, nil
	}

	creates := make([]models.Category, 0, len(e.newStandard)+len(e.newFeatured))
	for _, name := range e.newStandard {
		creates = append(creates, models.Category{Name: name, Type: models.CategoryTypeStandard, BookIDs: models.StringList{}})
	}
	for _, name := range e.newFeatured {
		creates = append(creates, models.Category{Name: name, Type: models.CategoryTypeFeatured, BookIDs: models.StringList{}})
	}

	// A name-based removal is dropped when the same name was re-added later
	// in the session; the pending creation wins, otherwise the batch would
	// create the record and immediately delete it.
	removals := make([]repository.CategoryRemoval, 0, len(e.removed))
	for _, rm := range e.removed {
		if rm.ID == "" && e.stillPending(rm) {
			continue
		}
		removals = append(removals, rm)
	}

	if err := e.repo.ApplyBatch(ctx, creates, e.typeChanges, removals); err != nil {
		return "", err
	}
	return "categories updated", nil
}

func (e *CategoryEditor) stillPending(rm repository.CategoryRemoval) bool {
	key := models.NormalizeCategoryName(rm.Name)
	if rm.Type == models.CategoryTypeFeatured {
		_, ok := e.newFeatured[key]
		return ok
	}
	_, ok := e.newStandard[key]
	return ok
}

func (e *CategoryEditor) nameExists(key string) bool {
	if _, ok := e.existingStandard[key]; ok {
		return true
	}
	if _, ok := e.existingFeatured[key]; ok {
		return true
	}
	if _, ok := e.newStandard[key]; ok {
		return true
	}
	_, ok := e.newFeatured[key]
	return ok
}

func (e *CategoryEditor) findExisting(id string) (string, editorItem, bool) {
	for key, item := range e.existingStandard {
		if item.ID == id {
			return key, item, true
		}
	}
	for key, item := range e.existingFeatured {
		if item.ID == id {
			return key, item, true
		}
	}
	return "", editorItem{}, false
}
