package email

// Email templates in HTML format

// BaseTemplate is the base layout for all emails
const BaseTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body {
            margin: 0;
            padding: 0;
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background-color: #f6f7f9;
            color: #1f2933;
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
            border: 1px solid #e4e7eb;
        }
        .logo {
            text-align: center;
            margin-bottom: 24px;
        }
        .logo h1 {
            font-size: 28px;
            color: #0b7285;
            margin: 0;
        }
        .button {
            display: inline-block;
            padding: 12px 24px;
            background: #0b7285;
            color: #ffffff !important;
            border-radius: 8px;
            text-decoration: none;
            font-weight: 600;
        }
        .details {
            background: #f6f7f9;
            border-radius: 8px;
            padding: 16px;
            margin: 16px 0;
        }
        .footer {
            text-align: center;
            margin-top: 24px;
            font-size: 12px;
            color: #9aa5b1;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="card">
            <div class="logo"><h1>Voyago</h1></div>
            {{.Content}}
        </div>
        <div class="footer">Voyago — stays and experiences worth traveling for.</div>
    </div>
</body>
</html>
`

// WelcomeTemplate greets a new user
const WelcomeTemplate = `
<h2>Welcome aboard, {{.UserName}}!</h2>
<p>Your Voyago account is ready. Browse listings, book a stay, or publish your own place.</p>
<p><a class="button" href="{{.DashboardURL}}">Start exploring</a></p>
`

// BookingCreatedTemplate notifies the host about a new booking request
const BookingCreatedTemplate = `
<h2>New booking request</h2>
<p>{{.GuestName}} requested a stay at <strong>{{.ListingTitle}}</strong>.</p>
<div class="details">
    <p>Check-in: {{.StartDate}}<br>
    Check-out: {{.EndDate}}<br>
    Guests: {{.Guests}}<br>
    Total: {{.TotalPrice}}</p>
</div>
<p><a class="button" href="{{.BookingURL}}">Review request</a></p>
`

// BookingConfirmedTemplate notifies the guest their booking was confirmed
const BookingConfirmedTemplate = `
<h2>Your booking is confirmed!</h2>
<p>Pack your bags — your stay at <strong>{{.ListingTitle}}</strong> is confirmed.</p>
<div class="details">
    <p>Check-in: {{.StartDate}}<br>
    Check-out: {{.EndDate}}<br>
    Total: {{.TotalPrice}}</p>
</div>
<p><a class="button" href="{{.BookingURL}}">View booking</a></p>
`

// BookingCanceledTemplate notifies the guest their booking was canceled
const BookingCanceledTemplate = `
<h2>Booking canceled</h2>
<p>Your booking at <strong>{{.ListingTitle}}</strong> ({{.StartDate}} – {{.EndDate}}) has been canceled.</p>
<p><a class="button" href="{{.ListingsURL}}">Find another stay</a></p>
`

// PaymentCompletedTemplate confirms a successful payment
const PaymentCompletedTemplate = `
<h2>Payment received</h2>
<p>We received your payment of <strong>{{.Amount}}</strong> for <strong>{{.ListingTitle}}</strong>.</p>
<div class="details">
    <p>Reference: {{.TxRef}}<br>
    Check-in: {{.StartDate}}<br>
    Check-out: {{.EndDate}}</p>
</div>
<p><a class="button" href="{{.BookingURL}}">View booking</a></p>
`
