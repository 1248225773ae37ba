package components

import (
	"context"

	"github.com/felixbrock/logoassist/internal/domain"
)

const dateLayout = "02/01/2006"

var statusLabels = map[domain.ProjectStatus]string{
	domain.ProjectDraft:     "Rascunho",
	domain.ProjectCompleted: "Concluído",
	domain.ProjectExported:  "Exportado",
}

func adminPage(title string, body Component) Component {
	return Page(title, SectionAdmin, component(func(ctx context.Context, w *writer) {
		w.raw(`<nav class="admin-nav"><a href="/admin">Painel</a><a href="/admin/projects">Projetos</a>`,
			`<a href="/admin/users">Usuários</a><a href="/admin/settings">Configurações</a>`)
		postButton(w, "/admin/logout", "Sair", "link")
		w.raw(`</nav>`)
		w.child(ctx, body)
	}))
}

func AdminLogin(enabled bool, errMsg string) Component {
	return Page("Login", SectionAdmin, component(func(ctx context.Context, w *writer) {
		w.raw(`<section class="login"><h1>Acesso administrativo</h1>`)
		if !enabled {
			w.raw(`<p class="notice">O acesso administrativo não está configurado.</p></section>`)
			return
		}
		if errMsg != "" {
			w.raw(`<p class="field-error">`)
			w.text(errMsg)
			w.raw(`</p>`)
		}
		w.raw(`<form method="post" action="/admin/login">`,
			`<label for="username">Usuário</label><input type="text" id="username" name="username" autocomplete="username">`,
			`<label for="password">Senha</label><input type="password" id="password" name="password" autocomplete="current-password">`,
			`<button type="submit">Entrar</button></form></section>`)
	}))
}

func AdminDashboard(stats domain.Stats) Component {
	return adminPage("Painel", component(func(ctx context.Context, w *writer) {
		w.rawf(`<section class="totals"><div><strong>%d</strong> logos criados</div><div><strong>%d</strong> usuários</div></section>`,
			stats.TotalLogosCreated, stats.TotalUsers)
		rankList(w, "Setores populares", stats.PopularSectors)
		rankList(w, "Estilos populares", stats.PopularStyles)
		w.raw(`<section><h2>Atividade recente</h2>`)
		projectTable(w, stats.RecentActivity, false)
		w.raw(`</section>`)
	}))
}

func rankList(w *writer, title string, items []domain.NamedCount) {
	w.raw(`<section><h2>`)
	w.text(title)
	w.raw(`</h2><ol class="ranking">`)
	for _, it := range items {
		w.raw(`<li>`)
		w.text(it.Name)
		w.rawf(` <span>%d</span></li>`, it.Count)
	}
	w.raw(`</ol></section>`)
}

func projectTable(w *writer, projects []domain.Project, actions bool) {
	if len(projects) == 0 {
		w.raw(`<p class="muted">Nenhum projeto encontrado.</p>`)
		return
	}

	w.raw(`<table><thead><tr><th>Empresa</th><th>Setor</th><th>Criado em</th><th>Status</th><th>Conceitos</th>`)
	if actions {
		w.raw(`<th></th>`)
	}
	w.raw(`</tr></thead><tbody>`)
	for _, p := range projects {
		w.raw(`<tr><td>`)
		w.text(p.CompanyName)
		w.raw(`</td><td>`)
		w.text(p.Sector)
		w.raw(`</td><td>`)
		w.text(p.CreatedAt.Format(dateLayout))
		w.rawf(`</td><td class="status-%s">`, esc(string(p.Status)))
		w.text(statusLabels[p.Status])
		w.rawf(`</td><td>%d</td>`, p.Concepts)
		if actions {
			w.raw(`<td>`)
			postButton(w, "/admin/projects/"+p.Id+"/delete", "Excluir", "danger")
			w.raw(`</td>`)
		}
		w.raw(`</tr>`)
	}
	w.raw(`</tbody></table>`)
}

type ProjectsView struct {
	Projects []domain.Project
	Sectors  []string
	Search   string
	Status   string
	Sector   string
}

func AdminProjects(v ProjectsView) Component {
	return adminPage("Projetos", component(func(ctx context.Context, w *writer) {
		w.raw(`<h1>Projetos</h1><form method="get" action="/admin/projects" class="filters">`)
		w.rawf(`<input type="search" name="search" placeholder="Buscar empresa ou setor" value="%s">`, esc(v.Search))
		selectInput(w, "status", v.Status, [][2]string{
			{"all", "Todos os status"},
			{string(domain.ProjectDraft), statusLabels[domain.ProjectDraft]},
			{string(domain.ProjectCompleted), statusLabels[domain.ProjectCompleted]},
			{string(domain.ProjectExported), statusLabels[domain.ProjectExported]},
		})
		sectors := [][2]string{{"all", "Todos os setores"}}
		for _, s := range v.Sectors {
			sectors = append(sectors, [2]string{s, s})
		}
		selectInput(w, "sector", v.Sector, sectors)
		w.raw(`<button type="submit">Filtrar</button></form>`)
		projectTable(w, v.Projects, true)
	}))
}

type UsersView struct {
	Users  []domain.User
	Search string
	Role   string
}

func AdminUsers(v UsersView) Component {
	return adminPage("Usuários", component(func(ctx context.Context, w *writer) {
		w.raw(`<h1>Usuários</h1><form method="get" action="/admin/users" class="filters">`)
		w.rawf(`<input type="search" name="search" placeholder="Buscar nome ou e-mail" value="%s">`, esc(v.Search))
		selectInput(w, "role", v.Role, [][2]string{
			{"all", "Todos os perfis"},
			{string(domain.RoleAdmin), "Administrador"},
			{string(domain.RoleUser), "Usuário"},
		})
		w.raw(`<button type="submit">Filtrar</button></form>`)

		if len(v.Users) == 0 {
			w.raw(`<p class="muted">Nenhum usuário encontrado.</p>`)
			return
		}
		w.raw(`<table><thead><tr><th>Nome</th><th>E-mail</th><th>Perfil</th><th>Cadastro</th><th>Último acesso</th><th>Projetos</th><th></th></tr></thead><tbody>`)
		for _, u := range v.Users {
			w.raw(`<tr><td>`)
			w.text(u.Name)
			w.raw(`</td><td>`)
			w.text(u.Email)
			w.rawf(`</td><td class="role-%s">`, esc(string(u.Role)))
			w.text(string(u.Role))
			w.raw(`</td><td>`)
			w.text(u.CreatedAt.Format(dateLayout))
			w.raw(`</td><td>`)
			w.text(u.LastLogin.Format(dateLayout))
			w.rawf(`</td><td>%d</td><td>`, u.ProjectsCount)
			postButton(w, "/admin/users/"+u.Id+"/delete", "Excluir", "danger")
			w.raw(`</td></tr>`)
		}
		w.raw(`</tbody></table>`)
	}))
}

type SettingsView struct {
	Settings  domain.Settings
	MaskedKey string
	StyleTags []string
	Errors    map[string]string
	Saved     bool
}

func AdminSettings(v SettingsView) Component {
	return adminPage("Configurações", component(func(ctx context.Context, w *writer) {
		s := v.Settings
		w.raw(`<h1>Configurações</h1>`)
		if v.Saved {
			w.raw(`<p class="notice">Configurações salvas.</p>`)
		}
		w.raw(`<form method="post" action="/admin/settings">`)
		w.rawf(`<label for="stability_api_key">Chave da API Stability</label><input type="password" id="stability_api_key" name="stability_api_key" placeholder="%s" autocomplete="off">`,
			esc(v.MaskedKey))
		w.rawf(`<label for="max_logos_per_user">Logos por usuário</label><input type="number" id="max_logos_per_user" name="max_logos_per_user" value="%d">`,
			s.MaxLogosPerUser)
		fieldError(w, v.Errors, "max_logos_per_user")
		w.rawf(`<label for="session_timeout">Tempo de sessão (minutos)</label><input type="number" id="session_timeout" name="session_timeout" value="%d">`,
			s.SessionTimeout)
		fieldError(w, v.Errors, "session_timeout")

		styles := make([][2]string, len(v.StyleTags))
		for i, t := range v.StyleTags {
			styles[i] = [2]string{t, t}
		}
		w.raw(`<label for="default_logo_style">Estilo padrão</label>`)
		selectInput(w, "default_logo_style", s.DefaultLogoStyle, styles)
		fieldError(w, v.Errors, "default_logo_style")

		checkbox(w, "enable_email_notifications", "Notificações por e-mail", s.EnableEmailNotifications)
		checkbox(w, "enable_public_gallery", "Galeria pública", s.EnablePublicGallery)
		checkbox(w, "system_maintenance", "Modo de manutenção", s.SystemMaintenance)
		checkbox(w, "auto_backup", "Backup automático", s.AutoBackup)
		w.raw(`<button type="submit">Salvar</button></form>`)
	}))
}

func selectInput(w *writer, name, current string, options [][2]string) {
	w.rawf(`<select id="%[1]s" name="%[1]s">`, esc(name))
	for _, o := range options {
		selected := ""
		if o[0] == current {
			selected = " selected"
		}
		w.rawf(`<option value="%s"%s>%s</option>`, esc(o[0]), selected, esc(o[1]))
	}
	w.raw(`</select>`)
}

func checkbox(w *writer, name, label string, checked bool) {
	attr := ""
	if checked {
		attr = " checked"
	}
	w.rawf(`<label><input type="checkbox" name="%s" value="on"%s> %s</label>`, esc(name), attr, esc(label))
}
