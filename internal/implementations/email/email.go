package email

import (
	"context"
	"encoding/json"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/domain/verification"
	"fmt"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type sesClient interface {
	SendTemplatedEmail(ctx context.Context, params *ses.SendTemplatedEmailInput, optFns ...func(*ses.Options)) (*ses.SendTemplatedEmailOutput, error)
}

type Templates struct {
	PasswordReset       string
	AccountVerification string
}

type EmailSender struct {
	ses sesClient
	// This address must be verified with Amazon SES.
	sender          string
	templates       Templates
	verificationURL url.URL
}

func NewEmailSender(
	awsConfig aws.Config,
	sender string,
	templates Templates,
	verificationURL url.URL,
) *EmailSender {
	return newEmailSender(ses.NewFromConfig(awsConfig), sender, templates, verificationURL)
}

func newEmailSender(client sesClient, sender string, templates Templates, verificationURL url.URL) *EmailSender {
	if sender == "" {
		panic(e.NewEmptyArgumentError("sender"))
	}
	return &EmailSender{
		ses:             client,
		sender:          sender,
		templates:       templates,
		verificationURL: verificationURL,
	}
}

func (s *EmailSender) NotifyCode(ctx context.Context, u user.User, n verification.Notification) error {
	if u.Email == "" {
		return fmt.Errorf("email is not set for user %d", u.ID)
	}

	var template string
	switch n.Purpose {
	case verification.PurposePasswordReset:
		template = s.templates.PasswordReset
	case verification.PurposeAccountVerification:
		template = s.templates.AccountVerification
	default:
		return verification.ErrInvalidPurpose
	}

	templateParamsBytes, err := json.Marshal(
		codeTemplateParams{
			FullName:         u.FullName,
			Username:         string(u.Username),
			VerificationCode: string(n.Code),
			VerificationLink: s.VerificationLink(n.CodeHash),
		},
	)
	if err != nil {
		return err
	}
	templateParams := string(templateParamsBytes)

	email := string(u.Email)
	_, err = s.ses.SendTemplatedEmail(
		ctx,
		&ses.SendTemplatedEmailInput{
			Source: &s.sender,
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{email},
			},
			Template:     &template,
			TemplateData: &templateParams,
		},
	)
	return err
}

func (s *EmailSender) VerificationLink(hash verification.CodeHash) string {
	link := s.verificationURL
	query := link.Query()
	query.Set("token", string(hash))
	link.RawQuery = query.Encode()
	return link.String()
}

type codeTemplateParams struct {
	FullName         string `json:"fullName"`
	Username         string `json:"username"`
	VerificationCode string `json:"verificationCode"`
	VerificationLink string `json:"verificationLink"`
}
