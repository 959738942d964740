package main

import (
	"testing"

	"github.com/kisanhq/kisan/core/user"
	inmemusers "github.com/kisanhq/kisan/storage/users/inmem"
)

func setupCLI(t *testing.T) (*commandLine, *user.Service) {
	t.Helper()
	svc := user.NewService(inmemusers.NewRepository(), nil)
	return &commandLine{usrSvc: svc}, svc
}

func mockPassword(t *testing.T, pwd string) {
	t.Helper()
	orig := readPasswordFunc
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte(pwd), nil }
	t.Cleanup(func() { readPasswordFunc = orig })
}

func Test_commandLine_run(t *testing.T) {
	t.Run("no args prints usage", func(t *testing.T) {
		cli, _ := setupCLI(t)
		if err := cli.run([]string{"admin"}); err != errHelp {
			t.Errorf("run() error = %v, want errHelp", err)
		}
	})

	t.Run("unknown command prints usage", func(t *testing.T) {
		cli, _ := setupCLI(t)
		if err := cli.run([]string{"admin", "frobnicate"}); err != errHelp {
			t.Errorf("run() error = %v, want errHelp", err)
		}
	})

	t.Run("adduser requires email and name", func(t *testing.T) {
		cli, _ := setupCLI(t)
		if err := cli.run([]string{"admin", "adduser", "-email", "a@kisan.test"}); err != errHelp {
			t.Errorf("run() error = %v, want errHelp", err)
		}
	})

	t.Run("adduser registers an account", func(t *testing.T) {
		cli, svc := setupCLI(t)
		mockPassword(t, "s3cret-pass")

		err := cli.run([]string{"admin", "adduser", "-email", "asha@kisan.test", "-name", "Asha", "-role", "admin"})
		if err != nil {
			t.Fatalf("run() failed: %v", err)
		}
		acct, err := svc.GetByEmail("asha@kisan.test")
		if err != nil {
			t.Fatalf("GetByEmail() failed: %v", err)
		}
		if acct.Role != "admin" {
			t.Errorf("role = %q, want admin", acct.Role)
		}
		if err := acct.CheckPassword("s3cret-pass"); err != nil {
			t.Errorf("CheckPassword() failed: %v", err)
		}
	})

	t.Run("resetpassword replaces the password", func(t *testing.T) {
		cli, svc := setupCLI(t)
		mockPassword(t, "s3cret-pass")
		if err := cli.run([]string{"admin", "adduser", "-email", "kiran@kisan.test", "-name", "Kiran"}); err != nil {
			t.Fatalf("adduser failed: %v", err)
		}

		mockPassword(t, "n3w-password")
		if err := cli.run([]string{"admin", "resetpassword", "-email", "kiran@kisan.test"}); err != nil {
			t.Fatalf("resetpassword failed: %v", err)
		}
		acct, err := svc.GetByEmail("kiran@kisan.test")
		if err != nil {
			t.Fatalf("GetByEmail() failed: %v", err)
		}
		if err := acct.CheckPassword("n3w-password"); err != nil {
			t.Errorf("CheckPassword() failed after reset: %v", err)
		}
	})
}
