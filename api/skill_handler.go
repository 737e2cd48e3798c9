package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

const uncategorized = "Other"

type skillHandler struct {
	responder Responder
	logger    zerolog.Logger
	skills    skillStore
}

func newSkillHandler(skills skillStore) skillHandler {
	logger := log.With().Str("handlerName", "skillHandler").Logger()

	return skillHandler{
		responder: NewResponder(logger),
		logger:    logger,
		skills:    skills,
	}
}

type skillInput struct {
	Name     *string `json:"name"`
	Level    *string `json:"level"`
	Category *string `json:"category"`
	Icon     *string `json:"icon"`
	Order    *int    `json:"order"`
}

func (in skillInput) validate(creating bool) error {
	if creating && (blank(in.Name) || blank(in.Level) || blank(in.Category)) {
		return errs.NewMissingFieldsError("Name, level, and category are required")
	}
	fields := []struct {
		name  string
		value *string
	}{{"name", in.Name}, {"level", in.Level}, {"category", in.Category}}
	for _, f := range fields {
		if f.value != nil && blank(f.value) {
			return errs.NewInvalidFieldError(f.name, f.name+" cannot be empty")
		}
	}
	return nil
}

func (in skillInput) apply(s *models.Skill) {
	patchString(&s.Name, in.Name)
	patchString(&s.Level, in.Level)
	patchString(&s.Category, in.Category)
	patchOptional(&s.Icon, in.Icon)
	patchValue(&s.Order, in.Order)
}

// groupedSkill is the shape of a skill inside the grouped view.
type groupedSkill struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Level string    `json:"level"`
	Icon  *string   `json:"icon,omitempty"`
	Order int       `json:"order"`
}

// groupSkills buckets skills by category, using "Other" for blanks, each bucket ordered by Order.
func groupSkills(skills []models.Skill) map[string][]groupedSkill {
	groups := make(map[string][]groupedSkill)
	for _, s := range skills {
		category := strings.TrimSpace(s.Category)
		if category == "" {
			category = uncategorized
		}
		groups[category] = append(groups[category], groupedSkill{
			ID:    s.ID,
			Name:  s.Name,
			Level: s.Level,
			Icon:  s.Icon,
			Order: s.Order,
		})
	}
	for _, items := range groups {
		sort.SliceStable(items, func(i, j int) bool { return items[i].Order < items[j].Order })
	}
	return groups
}

// @Summary List skills
// @Tags Skills
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(50)
// @Router /api/skills [get]
func (h skillHandler) getSkills() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := parsePage(r, database.DefaultSkillLimit)

		skills, total, err := h.skills.List(r.Context(), page)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "skills", err))
			return
		}

		response := pageEnvelope("Skills retrieved successfully", "skills", skills, page, total)
		response["count"] = len(skills)
		h.responder.WriteJSON(w, response)
	}
}

// @Summary Skills grouped by category
// @Tags Skills
// @Router /api/skills/grouped [get]
func (h skillHandler) getGroupedSkills() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skills, err := h.skills.All(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "skills", err))
			return
		}

		h.responder.WriteJSON(w, envelope{
			"message": "Grouped skills retrieved successfully",
			"skills":  groupSkills(skills),
		})
	}
}

// @Summary Get skill
// @Tags Skills
// @Param skillID path string true "Skill ID" format(uuid)
// @Router /api/skills/{skillID} [get]
func (h skillHandler) getSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skillID, err := pathID(r, "skillID", "skill")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		skill, err := h.skills.FindByID(r.Context(), skillID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "skill", err))
			return
		}

		h.responder.WriteJSON(w, envelope{
			"message": "Skill retrieved successfully",
			"skill":   skill,
		})
	}
}

// @Summary Create skill
// @Tags Skills
// @Security BearerAuth
// @Router /api/skills [post]
func (h skillHandler) createSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in skillInput
		if err := decodeJSON(w, r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := in.validate(true); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var skill models.Skill
		in.apply(&skill)

		if err := h.skills.Add(r.Context(), &skill); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "skill", err))
			return
		}

		h.responder.WriteStatus(w, http.StatusCreated, envelope{
			"message": "Skill created successfully",
			"skill":   skill,
		})
	}
}

// @Summary Update skill
// @Tags Skills
// @Security BearerAuth
// @Param skillID path string true "Skill ID" format(uuid)
// @Router /api/skills/{skillID} [put]
func (h skillHandler) updateSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skillID, err := pathID(r, "skillID", "skill")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var in skillInput
		if err := decodeJSON(w, r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := in.validate(false); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		skill, err := h.skills.FindByID(r.Context(), skillID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "skill", err))
			return
		}
		in.apply(skill)

		if err := h.skills.Update(r.Context(), skill); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "skill", err))
			return
		}

		h.responder.WriteJSON(w, envelope{
			"message": "Skill updated successfully",
			"skill":   skill,
		})
	}
}

// @Summary Delete skill
// @Tags Skills
// @Security BearerAuth
// @Param skillID path string true "Skill ID" format(uuid)
// @Router /api/skills/{skillID} [delete]
func (h skillHandler) deleteSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skillID, err := pathID(r, "skillID", "skill")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.skills.Delete(r.Context(), skillID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "skill", err))
			return
		}

		h.responder.WriteJSON(w, envelope{"message": "Skill deleted successfully"})
	}
}
