package user

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/kisanhq/kisan/core"
)

var (
	// errors
	ErrNotFound    = errors.New("account not found")
	ErrEmailExists = errors.New("an account with this email already exists")
)

type (
	Repository interface {
		CheckEmailUniqueness(email string, excludedAccounts ...Account) error
		CreateAccount(acct Account) (Account, error)
		GetAccountByEmail(email string) (Account, error)
		QueryAllAccounts() ([]Account, error)
		UpdateAccount(acct Account) (Account, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, mailSvc: mailSvc}
}

func (svc *Service) checkUniqueness(email string, exclAccts ...Account) error {
	if err := svc.repo.CheckEmailUniqueness(email, exclAccts...); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

// Signup registers a new account and sends the welcome mail.
func (svc *Service) Signup(na NewAccount) (Account, error) {
	if err := na.Validate(svc); err != nil {
		return Account{}, err
	}

	now := time.Now().UTC()
	acct := Account{
		Name:      na.Name,
		Email:     na.Email,
		Role:      na.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := acct.SetPassword(na.Password); err != nil {
		return Account{}, errors.Wrap(err, "hashing password")
	}

	acct, err := svc.repo.CreateAccount(acct)
	if err != nil {
		return Account{}, err
	}
	svc.sendWelcomeMail(acct)
	return acct, nil
}

func (svc *Service) GetByEmail(email string) (Account, error) {
	return svc.repo.GetAccountByEmail(core.CleanString(email, true /* lower */))
}

func (svc *Service) QueryAll() ([]Account, error) {
	return svc.repo.QueryAllAccounts()
}

// SetPassword replaces an account's password; used by the admin CLI.
func (svc *Service) SetPassword(email, pwd string) (Account, error) {
	acct, err := svc.GetByEmail(email)
	if err != nil {
		return Account{}, err
	}
	if err := acct.SetPassword(pwd); err != nil {
		return Account{}, errors.Wrap(err, "hashing password")
	}
	acct.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateAccount(acct)
}

func (svc *Service) sendWelcomeMail(acct Account) {
	if svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: acct.Name, Address: acct.Email}},
		Subject: "Welcome to " + core.Conf.GetString("appName"),
		BodyStr: fmt.Sprintf(
			"Namaste %s,\n\nYour account has been created. "+
				"Log in to explore your dashboard and register your plots.\n",
			acct.Name,
		),
	})
}
