package mailer

import "html/template"

var confirmationTemplate = template.Must(template.New("booking_confirmation").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background: #667eea; padding: 30px; text-align: center; color: white;">
    <h1 style="margin: 0;">AutoBooker</h1>
    <p style="margin: 10px 0 0 0;">{{if eq .Status "confirmed"}}Réservation confirmée avec succès !{{else}}Demande de réservation reçue, en cours de validation.{{end}}</p>
  </div>
  <div style="padding: 30px; background-color: #f8fafc;">
    <h2 style="color: #334155;">Bonjour {{.FirstName}}</h2>
    {{if .PersonalMessage}}<p style="color: #475569; white-space: pre-line;">{{.PersonalMessage}}</p>{{end}}
    <table style="width: 100%; border-spacing: 0;">
      <tr><td>Service :</td><td><strong>{{.ServiceName}}</strong></td></tr>
      <tr><td>Date :</td><td><strong>{{.Date}}</strong></td></tr>
      <tr><td>Heure :</td><td><strong>{{.Time}}</strong></td></tr>
      <tr><td>Durée :</td><td><strong>{{.ServiceDuration}}</strong></td></tr>
      <tr><td>Code de confirmation :</td><td><strong>{{.ConfirmationCode}}</strong></td></tr>
    </table>
    <ul>
      <li>Conservez ce code de confirmation : <strong>{{.ConfirmationCode}}</strong></li>
      <li>Un rappel vous sera envoyé 24h avant le rendez-vous</li>
      <li>En cas d'empêchement, prévenez-nous au moins 2h à l'avance</li>
    </ul>
    {{if .DashboardURL}}<p style="text-align: center;"><a href="{{.DashboardURL}}">Accéder au Dashboard</a></p>{{end}}
  </div>
  <div style="background: #334155; color: white; padding: 20px; text-align: center;">
    <p style="margin: 0;">Merci de faire confiance à AutoBooker !</p>
  </div>
</div>
`))
