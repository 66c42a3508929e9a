package i18n

var english = Table{
	"nav": Table{
		"home":    "Home",
		"plans":   "Plans",
		"contact": "Contact",
		"admin":   "Admin",
		"logout":  "Log out",
	},
	"home": Table{
		"title":    "TelConnect - Mobile & Internet Plans",
		"heading":  "Stay connected with TelConnect",
		"subtitle": "Mobile, fiber and TV bundles for every household.",
		"cta":      "See our plans",
	},
	"plans": Table{
		"title":     "Our Plans",
		"heading":   "Find the right plan",
		"mobile":    "Mobile",
		"fiber":     "Fiber Internet",
		"tv":        "TV Bundles",
		"per_month": "/month",
	},
	"contact": Table{
		"title":         "Contact Us",
		"heading":       "Get in touch",
		"name":          "Name",
		"email":         "Email",
		"phone":         "Phone (optional)",
		"subject":       "Subject",
		"message":       "Message",
		"plan_interest": "Plan you are interested in (optional)",
		"submit":        "Send message",
		"success":       "Thank you for your message. We will get back to you soon.",
		"rate_limited":  "Too many submissions. Please try again later.",
	},
	"login": Table{
		"title":    "Admin Login",
		"heading":  "Administration",
		"username": "Username",
		"password": "Password",
		"submit":   "Sign in",
	},
	"admin": Table{
		"title":        "Dashboard",
		"contacts":     "Contact submissions",
		"stats_total":  "Total",
		"stats_new":    "New",
		"stats_today":  "Today",
		"status_new":   "New",
		"status_replied": "Replied",
		"status_closed":  "Closed",
		"search":       "Search",
		"export_csv":   "Export CSV",
		"delete":       "Delete",
		"no_results":   "No submissions found.",
	},
	"footer": Table{
		"rights": "All rights reserved.",
	},
}

var french = Table{
	"nav": Table{
		"home":    "Accueil",
		"plans":   "Forfaits",
		"contact": "Contact",
		"admin":   "Admin",
		"logout":  "Déconnexion",
	},
	"home": Table{
		"title":    "TelConnect - Forfaits mobiles et Internet",
		"heading":  "Restez connecté avec TelConnect",
		"subtitle": "Forfaits mobiles, fibre et TV pour tous les foyers.",
		"cta":      "Voir nos forfaits",
	},
	"plans": Table{
		"title":     "Nos forfaits",
		"heading":   "Trouvez le bon forfait",
		"mobile":    "Mobile",
		"fiber":     "Internet fibre",
		"tv":        "Bouquets TV",
		"per_month": "/mois",
	},
	"contact": Table{
		"title":         "Contactez-nous",
		"heading":       "Prenez contact",
		"name":          "Nom",
		"email":         "Email",
		"phone":         "Téléphone (facultatif)",
		"subject":       "Sujet",
		"message":       "Message",
		"plan_interest": "Forfait qui vous intéresse (facultatif)",
		"submit":        "Envoyer le message",
		"success":       "Merci pour votre message. Nous vous répondrons rapidement.",
		"rate_limited":  "Trop de soumissions. Veuillez réessayer plus tard.",
	},
	"login": Table{
		"title":    "Connexion admin",
		"heading":  "Administration",
		"username": "Nom d'utilisateur",
		"password": "Mot de passe",
		"submit":   "Se connecter",
	},
	"admin": Table{
		"title":        "Tableau de bord",
		"contacts":     "Messages reçus",
		"stats_total":  "Total",
		"stats_new":    "Nouveaux",
		"stats_today":  "Aujourd'hui",
		"status_new":   "Nouveau",
		"status_replied": "Répondu",
		"status_closed":  "Clos",
		"search":       "Rechercher",
		"export_csv":   "Exporter CSV",
		"delete":       "Supprimer",
		"no_results":   "Aucun message trouvé.",
	},
	"footer": Table{
		"rights": "Tous droits réservés.",
	},
}

var spanish = Table{
	"nav": Table{
		"home":    "Inicio",
		"plans":   "Planes",
		"contact": "Contacto",
		"admin":   "Admin",
		"logout":  "Cerrar sesión",
	},
	"home": Table{
		"title":    "TelConnect - Planes móviles e Internet",
		"heading":  "Mantente conectado con TelConnect",
		"subtitle": "Planes de móvil, fibra y TV para cada hogar.",
		"cta":      "Ver nuestros planes",
	},
	"plans": Table{
		"title":     "Nuestros planes",
		"heading":   "Encuentra el plan adecuado",
		"mobile":    "Móvil",
		"fiber":     "Internet de fibra",
		"tv":        "Paquetes de TV",
		"per_month": "/mes",
	},
	"contact": Table{
		"title":         "Contáctanos",
		"heading":       "Ponte en contacto",
		"name":          "Nombre",
		"email":         "Correo electrónico",
		"phone":         "Teléfono (opcional)",
		"subject":       "Asunto",
		"message":       "Mensaje",
		"plan_interest": "Plan que te interesa (opcional)",
		"submit":        "Enviar mensaje",
		"success":       "Gracias por tu mensaje. Te responderemos pronto.",
		"rate_limited":  "Demasiados envíos. Inténtalo de nuevo más tarde.",
	},
	"login": Table{
		"title":    "Acceso admin",
		"heading":  "Administración",
		"username": "Usuario",
		"password": "Contraseña",
		"submit":   "Iniciar sesión",
	},
	"admin": Table{
		"title":        "Panel",
		"contacts":     "Mensajes recibidos",
		"stats_total":  "Total",
		"stats_new":    "Nuevos",
		"stats_today":  "Hoy",
		"status_new":   "Nuevo",
		"status_replied": "Respondido",
		"status_closed":  "Cerrado",
		"search":       "Buscar",
		"export_csv":   "Exportar CSV",
		"delete":       "Eliminar",
		"no_results":   "No se encontraron mensajes.",
	},
	"footer": Table{
		"rights": "Todos los derechos reservados.",
	},
}
