package email

import (
	"bytes"
	"fmt"
	"html/template"
)

const baseStyle = `
        body {
            font-family: Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
        }
        .header {
            background-color: #4F46E5;
            color: white;
            padding: 20px;
            text-align: center;
            border-radius: 5px 5px 0 0;
        }
        .content {
            background-color: #f9f9f9;
            padding: 30px;
            border-radius: 0 0 5px 5px;
        }
        .code {
            display: inline-block;
            background-color: #4F46E5;
            color: white;
            font-size: 28px;
            letter-spacing: 6px;
            padding: 12px 30px;
            border-radius: 5px;
            margin: 20px 0;
        }
        .footer {
            margin-top: 30px;
            font-size: 12px;
            color: #666;
            text-align: center;
        }
`

var welcomeTmpl = template.Must(template.New("welcome").Parse(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>` + baseStyle + `</style>
</head>
<body>
    <div class="header">
        <h1>Welcome!</h1>
    </div>
    <div class="content">
        <h2>Hi {{.Name}},</h2>
        <p>Your account has been created with the email address {{.Email}}. We are glad to have you on board.</p>
        <p>To unlock everything, verify your email address from your account page.</p>
    </div>
    <div class="footer">
        <p>If you didn't create this account, you can safely ignore this email.</p>
    </div>
</body>
</html>
`))

var otpTmpl = template.Must(template.New("otp").Parse(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>` + baseStyle + `</style>
</head>
<body>
    <div class="header">
        <h1>{{.Title}}</h1>
    </div>
    <div class="content">
        <p>{{.Intro}}</p>

        <span class="code">{{.Code}}</span>

        <p>Enter this code to continue. It is valid for 10 minutes and can be used once.</p>
    </div>
    <div class="footer">
        <p>If you didn't request this code, you can safely ignore this email.</p>
    </div>
</body>
</html>
`))

func renderWelcome(name, email string) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Name  string
		Email string
	}{Name: name, Email: email}

	if err := welcomeTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}

func renderOtp(title, intro, code string) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Title string
		Intro string
		Code  string
	}{Title: title, Intro: intro, Code: code}

	if err := otpTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}
