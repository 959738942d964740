package user_test

import (
	"testing"

	"github.com/kisanhq/kisan/core"
	"github.com/kisanhq/kisan/core/session"
	"github.com/kisanhq/kisan/core/user"
	dummymail "github.com/kisanhq/kisan/services/email/dummy"
	inmemusers "github.com/kisanhq/kisan/storage/users/inmem"
)

func setup(t *testing.T) (*user.Service, *dummymail.Service) {
	t.Helper()
	mailSvc := dummymail.NewService()
	return user.NewService(inmemusers.NewRepository(), mailSvc), mailSvc
}

func TestService_Signup(t *testing.T) {
	svc, mailSvc := setup(t)

	acct, err := svc.Signup(user.NewAccount{
		Name:            "Asha Patil",
		Email:           "Asha@Kisan.Test",
		Password:        "s3cret-pass",
		PasswordConfirm: "s3cret-pass",
		Role:            "teacher",
	})
	if err != nil {
		t.Fatalf("Signup() failed: %v", err)
	}
	if acct.ID == 0 {
		t.Error("account was not assigned an ID")
	}
	if acct.Email != "asha@kisan.test" {
		t.Errorf("email = %q, want lowercased", acct.Email)
	}
	if err := acct.CheckPassword("s3cret-pass"); err != nil {
		t.Errorf("CheckPassword() failed: %v", err)
	}
	if err := acct.CheckPassword("wrong"); err == nil {
		t.Error("CheckPassword() accepted a wrong password")
	}

	sent := mailSvc.SentMessages()
	if len(sent) != 1 {
		t.Fatalf("welcome mails sent = %d, want 1", len(sent))
	}
	if sent[0].To[0].Address != "asha@kisan.test" {
		t.Errorf("welcome mail recipient = %q", sent[0].To[0].Address)
	}
}

func TestService_Signup_defaultsRoleToFarmer(t *testing.T) {
	svc, _ := setup(t)

	acct, err := svc.Signup(user.NewAccount{
		Name:            "Kiran",
		Email:           "kiran@kisan.test",
		Password:        "s3cret-pass",
		PasswordConfirm: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Signup() failed: %v", err)
	}
	if acct.Role != session.RoleFarmer {
		t.Errorf("role = %q, want %q", acct.Role, session.RoleFarmer)
	}
}

func TestService_Signup_duplicateEmail(t *testing.T) {
	svc, _ := setup(t)

	na := user.NewAccount{
		Name:            "Asha Patil",
		Email:           "asha@kisan.test",
		Password:        "s3cret-pass",
		PasswordConfirm: "s3cret-pass",
	}
	if _, err := svc.Signup(na); err != nil {
		t.Fatalf("Signup() failed: %v", err)
	}

	_, err := svc.Signup(na)
	if err == nil {
		t.Fatal("Signup() accepted a duplicate email")
	}
	vErr, ok := err.(*core.ValidationError)
	if !ok {
		t.Fatalf("error type = %T, want *core.ValidationError", err)
	}
	if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "email" {
		t.Errorf("validation fields = %+v", vErr.Fields)
	}
}

func TestService_Signup_validatesInput(t *testing.T) {
	svc, mailSvc := setup(t)

	tests := []struct {
		name string
		na   user.NewAccount
	}{
		{name: "missing name", na: user.NewAccount{Email: "a@b.test", Password: "s3cret-pass", PasswordConfirm: "s3cret-pass"}},
		{name: "bad email", na: user.NewAccount{Name: "A", Email: "nope", Password: "s3cret-pass", PasswordConfirm: "s3cret-pass"}},
		{name: "short password", na: user.NewAccount{Name: "A", Email: "a@b.test", Password: "short", PasswordConfirm: "short"}},
		{name: "password mismatch", na: user.NewAccount{Name: "A", Email: "a@b.test", Password: "s3cret-pass", PasswordConfirm: "other-pass"}},
		{name: "unknown role", na: user.NewAccount{Name: "A", Email: "a@b.test", Password: "s3cret-pass", PasswordConfirm: "s3cret-pass", Role: "root"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Signup(tt.na); err == nil {
				t.Error("Signup() succeeded, want validation error")
			}
		})
	}
	if sent := mailSvc.SentMessages(); len(sent) != 0 {
		t.Errorf("mails sent for rejected signups: %d", len(sent))
	}
}

func TestService_SetPassword(t *testing.T) {
	svc, _ := setup(t)

	if _, err := svc.Signup(user.NewAccount{
		Name:            "Asha Patil",
		Email:           "asha@kisan.test",
		Password:        "s3cret-pass",
		PasswordConfirm: "s3cret-pass",
	}); err != nil {
		t.Fatalf("Signup() failed: %v", err)
	}

	acct, err := svc.SetPassword("asha@kisan.test", "n3w-password")
	if err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}
	if err := acct.CheckPassword("n3w-password"); err != nil {
		t.Errorf("CheckPassword() failed after reset: %v", err)
	}

	if _, err := svc.SetPassword("unknown@kisan.test", "whatever"); err != user.ErrNotFound {
		t.Errorf("SetPassword(unknown) error = %v, want ErrNotFound", err)
	}
}
