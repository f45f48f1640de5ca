package store

import (
	"context"
	"database/sql"

	"hitchcock/internal/storyboard"
)

// Column order in each *Columns constant MUST match the matching scanArgs.
// Add new columns at the end of both.

const sceneColumns = `scene_id, title, script_text, importance, description`

const analysisColumns = `scene_id, setting, mood, pacing, time_of_day`

const shotColumns = `id, scene_id, shot_type, camera, description, duration, camera_movement, focus`

const planColumns = `scene_id, lighting, atmosphere`

const specColumns = `shot_id, scene_id, description, camera_type, camera_movement, camera_focus,
	lighting, atmosphere, time_of_day`

func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// valuesFor returns the grouped child values for parentID, or an empty slice.
func valuesFor(grouped map[string][]string, parentID string) []string {
	if values, ok := grouped[parentID]; ok {
		return values
	}
	return []string{}
}

type sceneRow struct {
	SceneID     string
	Title       sql.NullString
	ScriptText  sql.NullString
	Importance  sql.NullString
	Description sql.NullString
}

func (r *sceneRow) scanArgs() []any {
	return []any{&r.SceneID, &r.Title, &r.ScriptText, &r.Importance, &r.Description}
}

func (r *sceneRow) toDomain(characters []string) storyboard.Scene {
	return storyboard.Scene{
		SceneID:     r.SceneID,
		Title:       nullToString(r.Title),
		ScriptText:  nullToString(r.ScriptText),
		Importance:  storyboard.Importance(nullToString(r.Importance)),
		Description: nullToString(r.Description),
		Characters:  characters,
	}
}

func encodeScene(scene storyboard.Scene) []any {
	return []any{
		scene.SceneID,
		scene.Title,
		scene.ScriptText,
		string(scene.Importance),
		scene.Description,
	}
}

type analysisRow struct {
	SceneID   string
	Setting   sql.NullString
	Mood      sql.NullString
	Pacing    sql.NullString
	TimeOfDay sql.NullString
}

func (r *analysisRow) scanArgs() []any {
	return []any{&r.SceneID, &r.Setting, &r.Mood, &r.Pacing, &r.TimeOfDay}
}

func (r *analysisRow) toDomain(moments []string, shots []storyboard.Shot) storyboard.SceneAnalysis {
	if shots == nil {
		shots = []storyboard.Shot{}
	}
	return storyboard.SceneAnalysis{
		SceneID:    r.SceneID,
		KeyMoments: moments,
		Shots:      shots,
		Setting:    nullToString(r.Setting),
		Mood:       nullToString(r.Mood),
		Pacing:     storyboard.Pacing(nullToString(r.Pacing)),
		TimeOfDay:  nullToString(r.TimeOfDay),
	}
}

func encodeAnalysis(analysis storyboard.SceneAnalysis) []any {
	return []any{
		analysis.SceneID,
		analysis.Setting,
		analysis.Mood,
		string(analysis.Pacing),
		analysis.TimeOfDay,
	}
}

type shotRow struct {
	ID             int64
	SceneID        string
	Type           sql.NullString
	Camera         sql.NullString
	Description    sql.NullString
	Duration       sql.NullString
	CameraMovement sql.NullString
	Focus          sql.NullString
}

func (r *shotRow) scanArgs() []any {
	return []any{
		&r.ID,
		&r.SceneID,
		&r.Type,
		&r.Camera,
		&r.Description,
		&r.Duration,
		&r.CameraMovement,
		&r.Focus,
	}
}

func (r *shotRow) toDomain() storyboard.Shot {
	return storyboard.Shot{
		Type:           nullToString(r.Type),
		Camera:         nullToString(r.Camera),
		Description:    nullToString(r.Description),
		Duration:       nullToString(r.Duration),
		CameraMovement: nullToString(r.CameraMovement),
		Focus:          nullToString(r.Focus),
	}
}

// encodeShot omits the surrogate id; insertion order assigns it.
func encodeShot(sceneID string, shot storyboard.Shot) []any {
	return []any{
		sceneID,
		shot.Type,
		shot.Camera,
		shot.Description,
		shot.Duration,
		nullableString(shot.CameraMovement),
		nullableString(shot.Focus),
	}
}

type planRow struct {
	SceneID    string
	Lighting   sql.NullString
	Atmosphere sql.NullString
}

func (r *planRow) scanArgs() []any {
	return []any{&r.SceneID, &r.Lighting, &r.Atmosphere}
}

func (r *planRow) toDomain(props, effects []string) storyboard.VisualPlan {
	return storyboard.VisualPlan{
		SceneID:        r.SceneID,
		Lighting:       nullToString(r.Lighting),
		Atmosphere:     nullToString(r.Atmosphere),
		Props:          props,
		SpecialEffects: effects,
	}
}

func encodePlan(plan storyboard.VisualPlan) []any {
	return []any{plan.SceneID, plan.Lighting, plan.Atmosphere}
}

type specRow struct {
	ShotID         string
	SceneID        sql.NullString
	Description    sql.NullString
	CameraType     sql.NullString
	CameraMovement sql.NullString
	CameraFocus    sql.NullString
	Lighting       sql.NullString
	Atmosphere     sql.NullString
	TimeOfDay      sql.NullString
}

func (r *specRow) scanArgs() []any {
	return []any{
		&r.ShotID,
		&r.SceneID,
		&r.Description,
		&r.CameraType,
		&r.CameraMovement,
		&r.CameraFocus,
		&r.Lighting,
		&r.Atmosphere,
		&r.TimeOfDay,
	}
}

func (r *specRow) toDomain(props, effects, characters []string) storyboard.ShotImageSpec {
	return storyboard.ShotImageSpec{
		ShotID:      r.ShotID,
		SceneID:     nullToString(r.SceneID),
		Description: nullToString(r.Description),
		CameraSpecs: storyboard.CameraSpecs{
			Type:     nullToString(r.CameraType),
			Movement: nullToString(r.CameraMovement),
			Focus:    nullToString(r.CameraFocus),
		},
		VisualElements: storyboard.VisualElements{
			Lighting:   nullToString(r.Lighting),
			Atmosphere: nullToString(r.Atmosphere),
			TimeOfDay:  nullToString(r.TimeOfDay),
		},
		Props:          props,
		SpecialEffects: effects,
		Characters:     characters,
	}
}

func encodeSpec(spec storyboard.ShotImageSpec) []any {
	return []any{
		spec.ShotID,
		spec.SceneID,
		spec.Description,
		spec.CameraSpecs.Type,
		nullableString(spec.CameraSpecs.Movement),
		nullableString(spec.CameraSpecs.Focus),
		spec.VisualElements.Lighting,
		spec.VisualElements.Atmosphere,
		spec.VisualElements.TimeOfDay,
	}
}

type scannable[T any] interface {
	*T
	scanArgs() []any
}

// queryRows scans every row of query into T and closes the result set before
// returning, so callers may issue further queries on the same transaction.
func queryRows[T any, PT scannable[T]](ctx context.Context, tx *sql.Tx, query string, args ...any) ([]T, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var row T
		if err := rows.Scan(PT(&row).scanArgs()...); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
