package htmloutput

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>IAM User Audit - {{.Title}}</title>
    <style>
        :root {
            --bg-primary: #0d1117;
            --bg-secondary: #161b22;
            --text-primary: #f0f6fc;
            --text-secondary: #8b949e;
            --border-color: #30363d;
            --risk: #f85149;
            --warn: #d29922;
            --ok: #3fb950;
        }
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Ubuntu, sans-serif;
            background: var(--bg-primary);
            color: var(--text-primary);
            line-height: 1.6;
            padding: 20px;
        }
        .container { max-width: 1200px; margin: 0 auto; }
        header { border-bottom: 1px solid var(--border-color); padding-bottom: 12px; margin-bottom: 20px; }
        .meta { color: var(--text-secondary); font-size: 0.9em; }
        section { background: var(--bg-secondary); border: 1px solid var(--border-color); border-radius: 8px; padding: 16px; margin-bottom: 20px; }
        .cards { display: flex; gap: 12px; flex-wrap: wrap; margin: 12px 0; }
        .card { border: 1px solid var(--border-color); border-radius: 6px; padding: 8px 14px; min-width: 110px; }
        .card .n { font-size: 1.6em; font-weight: 600; }
        table { width: 100%; border-collapse: collapse; margin-top: 8px; }
        th, td { border: 1px solid var(--border-color); padding: 6px 10px; text-align: left; }
        th { color: var(--text-secondary); }
        .risk { color: var(--risk); font-weight: 600; }
        .warn { color: var(--warn); }
        .ok { color: var(--ok); }
    </style>
</head>
<body>
<div class="container">
    <header>
        <h1>IAM User Audit</h1>
        <div class="meta">Generated {{.GeneratedAt}}</div>
    </header>
    {{range .Accounts}}
    <section>
        <h2>Account {{.AccountID}}{{if .AccountName}} ({{.AccountName}}){{end}}</h2>
        <div class="cards">
            <div class="card"><div class="n">{{.Summary.TotalUsers}}</div>Users</div>
            <div class="card"><div class="n">{{.Summary.WithoutMFA}}</div>Without MFA</div>
            <div class="card"><div class="n">{{.Summary.AdminAccess}}</div>Admin</div>
            <div class="card"><div class="n">{{.Summary.WildcardPolicy}}</div>Wildcard</div>
            <div class="card"><div class="n">{{.Summary.Inactive}}</div>Inactive</div>
        </div>
        {{if .Rows}}
        <table>
            <thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead>
            <tbody>
            {{range .Rows}}<tr>{{range .}}<td class="{{.Class}}">{{.Value}}</td>{{end}}</tr>
            {{end}}
            </tbody>
        </table>
        {{else}}
        <p class="meta">No IAM users found.</p>
        {{end}}
        {{if .Compliance}}
        <h3>Compliance references</h3>
        <table>
            <thead><tr><th>Risk</th><th>Users</th><th>Controls</th></tr></thead>
            <tbody>
            {{range .Compliance}}<tr><td>{{.Risk}}</td><td>{{.Users}}</td><td>{{.Controls}}</td></tr>
            {{end}}
            </tbody>
        </table>
        {{end}}
    </section>
    {{end}}
    {{if .Failures}}
    <section>
        <h2 class="risk">Accounts not audited</h2>
        <table>
            <thead><tr><th>Account</th><th>Name</th><th>Error</th></tr></thead>
            <tbody>
            {{range .Failures}}<tr><td>{{.AccountID}}</td><td>{{.Name}}</td><td>{{.Error}}</td></tr>
            {{end}}
            </tbody>
        </table>
    </section>
    {{end}}
</div>
</body>
</html>
`
