// Command ses_templates manages the SES templates used for verification codes.
//
//	ses_templates create
//	ses_templates delete
//	ses_templates send -to jane@example.com -template password-reset
package main

import (
	"context"
	"encoding/json"
	"exzly/internal/config"
	"flag"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type template struct {
	subject string
	html    string
	text    string
}

var templates = map[string]func(cfg *config.Config) (string, template){
	"password-reset": func(cfg *config.Config) (string, template) {
		return cfg.AwsEmailPasswordResetTemplate, template{
			subject: "Reset password",
			html: `<p>Hi {{fullName}},</p>` +
				`<p>Your password reset code is <b>{{verificationCode}}</b>.</p>` +
				`<p>Or follow <a href="{{verificationLink}}">this link</a> to choose a new password.</p>`,
			text: "Hi {{fullName}},\n\nYour password reset code is {{verificationCode}}.\n" +
				"Or open {{verificationLink}} to choose a new password.\n",
		}
	},
	"account-verification": func(cfg *config.Config) (string, template) {
		return cfg.AwsEmailAccountVerificationTemplate, template{
			subject: "Verify your e-mail address",
			html: `<p>Hi {{fullName}},</p>` +
				`<p>Your verification code is <b>{{verificationCode}}</b>.</p>` +
				`<p>Or follow <a href="{{verificationLink}}">this link</a> to verify your account.</p>`,
			text: "Hi {{fullName}},\n\nYour verification code is {{verificationCode}}.\n" +
				"Or open {{verificationLink}} to verify your account.\n",
		}
	},
}

func main() {
	if len(os.Args) < 2 {
		fail(fmt.Errorf("usage: ses_templates create|delete|send"))
	}

	cfg, err := config.Load()
	if err != nil {
		fail(err)
	}
	svc := newClient(cfg)
	ctx := context.Background()

	switch os.Args[1] {
	case "create":
		for _, build := range templates {
			name, t := build(cfg)
			_, err := svc.CreateTemplate(ctx, &ses.CreateTemplateInput{
				Template: &types.Template{
					TemplateName: aws.String(name),
					SubjectPart:  aws.String(t.subject),
					HtmlPart:     aws.String(t.html),
					TextPart:     aws.String(t.text),
				},
			})
			if err != nil {
				fail(err)
			}
			fmt.Printf("Template %s has been created.\n", name)
		}
	case "delete":
		for _, build := range templates {
			name, _ := build(cfg)
			if _, err := svc.DeleteTemplate(ctx, &ses.DeleteTemplateInput{TemplateName: aws.String(name)}); err != nil {
				fail(err)
			}
			fmt.Printf("Template %s has been deleted.\n", name)
		}
	case "send":
		flags := flag.NewFlagSet("send", flag.ExitOnError)
		to := flags.String("to", "", "recipient address")
		kind := flags.String("template", "password-reset", "password-reset or account-verification")
		flags.Parse(os.Args[2:])

		build, ok := templates[*kind]
		if !ok || *to == "" {
			fail(fmt.Errorf("unknown template %q or empty recipient", *kind))
		}
		name, _ := build(cfg)
		data, _ := json.Marshal(map[string]string{
			"fullName":         "Test",
			"username":         "test",
			"verificationCode": "482913",
			"verificationLink": cfg.VerificationURL.String() + "?token=test",
		})
		_, err := svc.SendTemplatedEmail(ctx, &ses.SendTemplatedEmailInput{
			Source:       aws.String(cfg.AwsEmailSender),
			Destination:  &types.Destination{ToAddresses: []string{*to}},
			Template:     aws.String(name),
			TemplateData: aws.String(string(data)),
		})
		if err != nil {
			fail(err)
		}
		fmt.Println("Test e-mail has been sent.")
	default:
		fail(fmt.Errorf("unknown command %q", os.Args[1]))
	}
}

func newClient(cfg *config.Config) *ses.Client {
	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(cfg.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AwsAccessKey, cfg.AwsSecretKey, ""),
		),
	)
	if err != nil {
		fail(err)
	}
	return ses.NewFromConfig(awsCfg)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
