package handlers

import "html/template"

const layout = `{{define "head"}}<!doctype html>
<html><head><meta charset="utf-8"><title>{{.Title}} | EdTech Course Tracker</title></head><body>
{{if .User}}<header><span>{{.User.Email}} ({{.User.Role}})</span>
<form method="post" action="/api/auth/logout"><button type="submit">Sign out</button></form></header>{{end}}
<main>{{end}}
{{define "foot"}}</main></body></html>{{end}}`

const loginPage = `{{template "head" .}}
<h1>EdTech Course Tracker</h1>
<p>Internal Team Portal</p>
<form method="post" action="/api/auth/login">
<label>Email <input type="email" name="email" required></label>
<label>Password <input type="password" name="password" required></label>
<button type="submit">Sign in</button>
</form>
{{template "foot" .}}`

const dashboardPage = `{{template "head" .}}
<h1>Courses</h1>
{{if .IsManager}}<a href="/dashboard/courses/new">Add course</a>{{end}}
<form method="get" action="/dashboard" class="filters">
<label>Grade <select name="grade"><option value="">All</option>{{range .Grades}}<option value="{{.}}"{{if eq . $.Filter.Grade}} selected{{end}}>{{.}}</option>{{end}}</select></label>
<label>Discipline <select name="discipline"><option value="">All</option>{{range .Disciplines}}<option{{if eq . $.Filter.Discipline}} selected{{end}}>{{.}}</option>{{end}}</select></label>
<label>Textbook <select name="textbookStatus"><option value="">All</option>{{range .Statuses}}<option{{if eq . $.Filter.TextbookStatus}} selected{{end}}>{{.}}</option>{{end}}</select></label>
<label>Workbook <select name="workbookStatus"><option value="">All</option>{{range .Statuses}}<option{{if eq . $.Filter.WorkbookStatus}} selected{{end}}>{{.}}</option>{{end}}</select></label>
<button type="submit">Filter</button> <a href="/dashboard">Clear</a>
</form>
<table>
<thead><tr><th>Grade</th><th>Discipline</th><th>Course</th><th>Textbook</th><th>Workbook</th><th>Updated</th></tr></thead>
<tbody>
{{range .Courses}}<tr>
<td>{{.Grade}}</td><td>{{.Discipline}}</td>
<td><a href="/dashboard/courses/{{.ID}}">{{.CourseName}}</a></td>
<td>{{.TextbookStatus}}</td><td>{{.WorkbookStatus}}</td>
<td>{{.LastUpdated.Format "2006-01-02"}}{{if .UpdatedBy}} by {{.UpdatedBy}}{{end}}</td>
</tr>{{else}}<tr><td colspan="6">No courses found.</td></tr>{{end}}
</tbody>
</table>
{{template "foot" .}}`

const coursePage = `{{template "head" .}}
{{with .Course}}
<h1>{{.CourseName}}</h1>
<dl>
<dt>Grade</dt><dd>{{.Grade}}</dd>
<dt>Discipline</dt><dd>{{.Discipline}}</dd>
<dt>Textbook</dt><dd>{{.TextbookStatus}}</dd>
<dt>Workbook</dt><dd>{{.WorkbookStatus}}</dd>
<dt>Prerequisites</dt><dd>{{.Prerequisites}}</dd>
<dt>System requirements</dt><dd>{{.SystemRequirements}}</dd>
</dl>
{{end}}
{{if .IsManager}}<a href="/dashboard/courses/{{.Course.ID}}/edit">Edit</a>{{end}}
{{template "foot" .}}`

const courseFormPage = `{{template "head" .}}
<h1>{{if .Course}}Edit course{{else}}New course{{end}}</h1>
<form data-method="{{if .Course}}PUT{{else}}POST{{end}}"
      data-action="/api/courses{{if .Course}}/{{.Course.ID}}{{end}}">
<label>Grade <input type="number" name="grade" min="1" max="12" value="{{if .Course}}{{.Course.Grade}}{{end}}" required></label>
<label>Discipline <select name="discipline">{{range .Disciplines}}<option{{if and $.Course (eq (print $.Course.Discipline) (print .))}} selected{{end}}>{{.}}</option>{{end}}</select></label>
<label>Course name <input name="courseName" value="{{if .Course}}{{.Course.CourseName}}{{end}}" required></label>
<label>Textbook <select name="textbookStatus">{{range .Statuses}}<option{{if and $.Course (eq (print $.Course.TextbookStatus) (print .))}} selected{{end}}>{{.}}</option>{{end}}</select></label>
<label>Workbook <select name="workbookStatus">{{range .Statuses}}<option{{if and $.Course (eq (print $.Course.WorkbookStatus) (print .))}} selected{{end}}>{{.}}</option>{{end}}</select></label>
<label>Prerequisites <input name="prerequisites" value="{{if .Course}}{{.Course.Prerequisites}}{{end}}"></label>
<label>System requirements <input name="systemRequirements" value="{{if .Course}}{{.Course.SystemRequirements}}{{end}}"></label>
<button type="submit">Save</button>
</form>
{{template "foot" .}}`

var pageTemplates = map[string]*template.Template{
	"login":     mustPage("login", loginPage),
	"dashboard": mustPage("dashboard", dashboardPage),
	"course":    mustPage("course", coursePage),
	"form":      mustPage("form", courseFormPage),
}

func mustPage(name, body string) *template.Template {
	return template.Must(template.Must(template.New(name).Parse(layout)).Parse(body))
}
