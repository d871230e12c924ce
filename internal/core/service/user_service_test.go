package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/99minutos/expense-system/internal/core/domain"
	"github.com/99minutos/expense-system/internal/core/ports"
)

func strPtr(s string) *string { return &s }

func TestUserService_Create_Success(t *testing.T) {
	f := newFixture()
	svc := NewUserService(f.store.Users(), discardLogger)

	u, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Ana", Email: "ana@company.com", Role: "employee", Department: "Ops",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != "user-1" {
		t.Errorf("expected id user-1, got %s", u.ID)
	}
}

func TestUserService_Create_UnknownRole(t *testing.T) {
	f := newFixture()
	svc := NewUserService(f.store.Users(), discardLogger)

	_, err := svc.Create(context.Background(), ports.CreateUserInput{Name: "Ana", Email: "a@x.io", Role: "boss"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUserService_Get_NotFound(t *testing.T) {
	f := newFixture()
	svc := NewUserService(f.store.Users(), discardLogger)

	_, err := svc.Get(context.Background(), "user-9")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Update_PatchesFields(t *testing.T) {
	f := newFixture()
	f.seed()
	svc := NewUserService(f.store.Users(), discardLogger)

	u, err := svc.Update(context.Background(), "user-3", domain.UserPatch{Department: strPtr("Platform")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Department != "Platform" || u.Name != "Mike Davis" {
		t.Errorf("unexpected user after patch: %+v", u)
	}
}

func TestUserService_Update_RejectsSelfManager(t *testing.T) {
	f := newFixture()
	f.seed()
	svc := NewUserService(f.store.Users(), discardLogger)

	_, err := svc.Update(context.Background(), "user-2", domain.UserPatch{ManagerID: strPtr("user-2")})
	if !errors.Is(err, domain.ErrManagerCycle) {
		t.Fatalf("expected ErrManagerCycle, got %v", err)
	}
}

func TestUserService_Update_RejectsCycle(t *testing.T) {
	f := newFixture()
	f.seed()
	svc := NewUserService(f.store.Users(), discardLogger)

	// user-3 -> user-2 -> user-1; making user-1 report to user-3 closes the loop.
	_, err := svc.Update(context.Background(), "user-1", domain.UserPatch{ManagerID: strPtr("user-3")})
	if !errors.Is(err, domain.ErrManagerCycle) {
		t.Fatalf("expected ErrManagerCycle, got %v", err)
	}

	u, _ := svc.Get(context.Background(), "user-1")
	if u.ManagerID != "" {
		t.Errorf("user-1 must be unchanged, got manager %q", u.ManagerID)
	}
}

func TestUserService_Update_AllowsUnknownManager(t *testing.T) {
	f := newFixture()
	f.seed()
	svc := NewUserService(f.store.Users(), discardLogger)

	u, err := svc.Update(context.Background(), "user-3", domain.UserPatch{ManagerID: strPtr("user-404")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ManagerID != "user-404" {
		t.Errorf("expected manager user-404, got %q", u.ManagerID)
	}
}

// slowUserUpdates widens the gap between the chain check and the write.
type slowUserUpdates struct {
	ports.UserRepository
}

func (r slowUserUpdates) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	time.Sleep(20 * time.Millisecond)
	return r.UserRepository.Update(ctx, id, patch)
}

func TestUserService_Update_ConcurrentSwapCannotFormCycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	users := f.store.Users()
	a, _ := users.Create(ctx, &domain.User{Name: "A", Email: "a@company.com", Role: domain.RoleManager})
	b, _ := users.Create(ctx, &domain.User{Name: "B", Email: "b@company.com", Role: domain.RoleManager})

	svc := NewUserService(slowUserUpdates{users}, discardLogger)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = svc.Update(ctx, a.ID, domain.UserPatch{ManagerID: strPtr(b.ID)})
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = svc.Update(ctx, b.ID, domain.UserPatch{ManagerID: strPtr(a.ID)})
	}()
	wg.Wait()

	cycles := 0
	for _, err := range errs {
		if errors.Is(err, domain.ErrManagerCycle) {
			cycles++
		} else if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if cycles != 1 {
		t.Fatalf("expected exactly one update refused as a cycle, got %d", cycles)
	}

	gotA, _ := users.FindByID(ctx, a.ID)
	gotB, _ := users.FindByID(ctx, b.ID)
	if gotA.ManagerID == b.ID && gotB.ManagerID == a.ID {
		t.Error("A and B manage each other")
	}
}
