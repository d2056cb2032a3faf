package email

import (
	"bytes"
	"fmt"
	"html/template"
)

const activationTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body {
            margin: 0;
            padding: 0;
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif;
            background-color: #f4f6f8;
            color: #1a2b3c;
        }
        .container {
            max-width: 600px;
            margin: 0 auto;
            padding: 40px 20px;
        }
        .card {
            background: #ffffff;
            border-radius: 12px;
            padding: 32px;
            border: 1px solid #e2e8f0;
        }
        h2 {
            font-size: 24px;
            margin: 0 0 16px;
        }
        p {
            color: #4a5568;
            font-size: 16px;
            line-height: 1.6;
            margin: 0 0 16px;
        }
        .btn {
            display: inline-block;
            background: #1a6b54;
            color: #ffffff !important;
            text-decoration: none;
            padding: 14px 28px;
            border-radius: 8px;
            font-weight: 600;
            font-size: 16px;
            margin: 16px 0;
        }
        .footer {
            text-align: center;
            margin-top: 32px;
            color: #8894a4;
            font-size: 12px;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="card">
            <h2>Welcome, {{.FirstName}}!</h2>
            <p>An account was opened for you. Set your password to activate it
            and start using your balance.</p>
            <p style="text-align:center">
                <a class="btn" href="{{.ActivationLink}}">Activate account</a>
            </p>
            <p>This link works once. If you did not expect this email, you can
            safely ignore it.</p>
        </div>
        <div class="footer">VBank</div>
    </div>
</body>
</html>
`

var activationTmpl = template.Must(template.New("activation").Parse(activationTemplate))

// NewActivationMessage builds the activation email for a freshly created
// client account.
func NewActivationMessage(to, toName, activationLink string) (*Message, error) {
	var buf bytes.Buffer
	err := activationTmpl.Execute(&buf, struct {
		FirstName      string
		ActivationLink string
	}{FirstName: toName, ActivationLink: activationLink})
	if err != nil {
		return nil, fmt.Errorf("render activation email: %w", err)
	}

	return &Message{
		To:          to,
		ToName:      toName,
		Subject:     "Activate your account",
		HTMLContent: buf.String(),
		TextContent: "Activate your account: " + activationLink,
	}, nil
}
