package services

import (
	"context"
	"testing"

	"github.com/LailaElmallass/projectElite-sub000/auth"
	"github.com/LailaElmallass/projectElite-sub000/internal/apperr"
	"github.com/LailaElmallass/projectElite-sub000/internal/models"
)

func (e *testEnv) formation(t *testing.T, price float64, points int) *models.Formation {
	t.Helper()
	f, err := e.formations.Create(context.Background(), e.user(t, auth.RoleAdmin), input(map[string]any{
		"title": "Go", "description": "Basics", "price": price, "points": points, "target_audience": "debutant",
	}))
	if err != nil {
		t.Fatalf("Create formation: %v", err)
	}
	return f
}

func points(t *testing.T, e *testEnv, userID uint) int {
	t.Helper()
	var u models.User
	if err := e.db.First(&u, userID).Error; err != nil {
		t.Fatal(err)
	}
	return u.Points
}

func TestCompleteFormation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	student := e.user(t, auth.RoleUtilisateur)
	f := e.formation(t, 49.9, 30)

	_, err := e.formations.Complete(ctx, student, f.ID)
	wantKind(t, err, apperr.KindForbidden)

	pay, err := e.formations.Pay(ctx, student, input(map[string]any{"formation_id": int(f.ID)}))
	if err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if pay.Amount != 49.9 || pay.IsGlobal {
		t.Errorf("payment = %+v", pay)
	}

	total, err := e.formations.Complete(ctx, student, f.ID)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if total != 30 || points(t, e, student.UserID) != 30 {
		t.Errorf("points = %d", total)
	}

	_, err = e.formations.Complete(ctx, student, f.ID)
	wantKind(t, err, apperr.KindConflict)
	if got := points(t, e, student.UserID); got != 30 {
		t.Errorf("points after retry = %d, want 30", got)
	}
}

func TestCompleteFreeFormationNeedsPayment(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	student := e.user(t, auth.RoleUtilisateur)
	free := e.formation(t, 0, 10)

	_, err := e.formations.Complete(ctx, student, free.ID)
	wantKind(t, err, apperr.KindForbidden)
	if got := points(t, e, student.UserID); got != 0 {
		t.Fatalf("points without payment = %d, want 0", got)
	}

	if _, err := e.formations.Pay(ctx, student, input(map[string]any{"formation_id": int(free.ID)})); err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if total, err := e.formations.Complete(ctx, student, free.ID); err != nil || total != 10 {
		t.Fatalf("Complete after payment = %d, %v", total, err)
	}
}

func TestFormationAccess(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	student := e.user(t, auth.RoleCoach)
	paid := e.formation(t, 100, 5)
	free := e.formation(t, 0, 5)
	e.db.Model(paid).Update("video_url", "/storage/formations/videos/v.mp4")

	list, err := e.formations.List(ctx, student, FormationFilter{Sort: "price_asc"})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != free.ID {
		t.Fatalf("List = %+v", list)
	}
	if list[0].HasAccess || list[1].HasAccess || list[1].VideoURL != "" {
		t.Errorf("annotations = %+v", list)
	}

	ok, err := e.formations.Access(ctx, student, paid.ID)
	if err != nil || ok {
		t.Fatalf("Access before payment = %v, %v", ok, err)
	}
	if _, err := e.formations.Pay(ctx, student, input(map[string]any{"is_global": true})); err != nil {
		t.Fatal(err)
	}
	got, err := e.formations.Get(ctx, student, paid.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.HasAccess || got.VideoURL == "" {
		t.Errorf("Get after global payment = %+v", got)
	}
}

func TestPayConflicts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	student := e.user(t, auth.RoleUtilisateur)
	f := e.formation(t, 10, 1)
	free := e.formation(t, 0, 1)

	_, err := e.formations.Pay(ctx, student, input(nil))
	wantField(t, err, "formation_id")
	_, err = e.formations.Pay(ctx, student, input(map[string]any{"formation_id": 9999}))
	wantField(t, err, "formation_id")
	if pay, err := e.formations.Pay(ctx, student, input(map[string]any{"formation_id": int(free.ID)})); err != nil || pay.Amount != 0 {
		t.Fatalf("Pay free formation = %+v, %v", pay, err)
	}
	_, err = e.formations.Pay(ctx, student, input(map[string]any{"formation_id": int(free.ID)}))
	wantKind(t, err, apperr.KindConflict)

	if _, err := e.formations.Pay(ctx, student, input(map[string]any{"formation_id": int(f.ID)})); err != nil {
		t.Fatal(err)
	}
	_, err = e.formations.Pay(ctx, student, input(map[string]any{"formation_id": int(f.ID)}))
	wantKind(t, err, apperr.KindConflict)

	if _, err := e.formations.Pay(ctx, student, input(map[string]any{"is_global": "true"})); err != nil {
		t.Fatal(err)
	}
	_, err = e.formations.Pay(ctx, student, input(map[string]any{"is_global": true}))
	wantKind(t, err, apperr.KindConflict)
}

func TestFormationAdminCRUD(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	admin := e.user(t, auth.RoleAdmin)
	coach := e.user(t, auth.RoleCoach)

	_, err := e.formations.Create(ctx, coach, input(map[string]any{"title": "x"}))
	wantKind(t, err, apperr.KindForbidden)
	_, err = e.formations.Create(ctx, admin, input(map[string]any{"title": "x", "description": "d", "price": "cheap", "points": 1}))
	wantField(t, err, "price")

	f, err := e.formations.Create(ctx, admin, inputWithFile(t, map[string]any{
		"title": "Video", "description": "d", "price": 5, "points": 1,
	}, "video", "intro.mp4", 10))
	if err != nil {
		t.Fatal(err)
	}
	first := f.VideoURL

	f, err = e.formations.Update(ctx, admin, f.ID, inputWithFile(t, map[string]any{"price": 7}, "video", "v2.mp4", 10))
	if err != nil {
		t.Fatal(err)
	}
	if f.Price != 7 || f.Title != "Video" || f.VideoURL == first {
		t.Errorf("Update = %+v", f)
	}
	if len(e.store.deleted) != 1 || e.store.deleted[0] != first {
		t.Errorf("replaced files = %v", e.store.deleted)
	}

	if err := e.formations.Delete(ctx, admin, f.ID); err != nil {
		t.Fatal(err)
	}
	all, _ := e.formations.AdminList(ctx, admin)
	if len(all) != 0 {
		t.Errorf("AdminList after delete = %v", all)
	}
	_, err = e.formations.AdminList(ctx, coach)
	wantKind(t, err, apperr.KindForbidden)
}
