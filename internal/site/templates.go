package site

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}} · {{.ProjectName}}</title>
  <link rel="stylesheet" href="{{.BasePath}}style.css">
  <script type="module">
    import mermaid from "https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.esm.min.mjs";
    mermaid.initialize({ startOnLoad: true });
  </script>
</head>
<body>
  <nav class="sidebar">
    <h2 class="project-title">{{.ProjectName}}</h2>
    {{.TreeHTML}}
  </nav>
  <main class="content">
    <article class="page-content">
      {{.Content}}
    </article>
  </main>
</body>
</html>
`

// cssContent is the stylesheet shared by every page.
const cssContent = `:root {
  --bg: #ffffff;
  --bg-sidebar: #f1f3f5;
  --text: #212529;
  --muted: #6c757d;
  --accent: #1f6feb;
  --border: #dee2e6;
}

* { box-sizing: border-box; }

body {
  margin: 0;
  display: flex;
  font-family: system-ui, -apple-system, "Segoe UI", sans-serif;
  color: var(--text);
  background: var(--bg);
}

.sidebar {
  width: 280px;
  min-height: 100vh;
  padding: 1rem;
  background: var(--bg-sidebar);
  border-right: 1px solid var(--border);
  font-size: 0.9rem;
}

.sidebar ul { list-style: none; padding-left: 1rem; margin: 0.25rem 0; }
.sidebar > ul { padding-left: 0; }
.sidebar a { color: var(--text); text-decoration: none; }
.sidebar a.active { color: var(--accent); font-weight: 600; }
.sidebar .dir > span { color: var(--muted); }

.content { flex: 1; padding: 2rem 3rem; max-width: 1100px; }

table { border-collapse: collapse; margin: 1rem 0; }
th, td { border: 1px solid var(--border); padding: 0.35rem 0.75rem; text-align: left; }
code { background: var(--bg-sidebar); padding: 0.1rem 0.3rem; border-radius: 3px; }
pre.mermaid { background: none; }
`
