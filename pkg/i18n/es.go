package i18n

var spanish = map[string]string{
	"apply.noteNotFound":       "Nota no encontrada: {path}",
	"apply.noTemplates":        "No hay plantillas disponibles",
	"apply.selectTemplate":     "Selecciona una plantilla",
	"apply.noTemplateSelected": "No se seleccionó ninguna plantilla",
	"apply.templateNotFound":   "Plantilla no encontrada: {template}",
	"apply.applying":           "Aplicando la plantilla {template}",
	"apply.applied":            "Plantilla {template} aplicada a {path}",
	"apply.fetchError":         "No se pudo obtener {url}, se continúa sin contexto: {error}",
	"apply.generationFailed":   "El generador no devolvió ningún resultado",
	"apply.saveError":          "No se pudo guardar {path}: {error}",
	"apply.moved":              "Movida a {path}",
	"apply.moveError":          "No se pudo mover la nota a {path}: {error}",
	"apply.commandError":       "El comando {command} falló: {error}",
	"apply.noContext":          "(sin contexto)",
	"apply.prompt": `Título de la nota: {title}

Metadatos actuales (JSON):
{frontmatter}

Cuerpo actual:
{body}

Contexto de {url}:
{context}

Instrucciones:
{prompt}

Responde con un único objeto JSON con dos campos: "frontmatter", un objeto con sugerencias de metadatos, y "body", el cuerpo Markdown completo. No sugieras etiquetas.`,

	"enhance.noPrompt":                "No hay un prompt configurado para esta nota",
	"enhance.enhancing":               "Mejorando {path}",
	"enhance.enhanced":                "Nota mejorada",
	"enhance.failed":                  "No se pudo mejorar la nota",
	"enhance.promptNote":              "Estás mejorando la nota titulada \"{title}\".",
	"enhance.promptCommands":          "Instrucciones adicionales:",
	"enhance.promptFrontmatter":       "Metadatos actuales (JSON):\n{json}",
	"enhance.promptBody":              "Cuerpo actual:\n{body}",
	"enhance.promptReturnJson":        "Responde solo con un objeto JSON.",
	"enhance.promptReturnBody":        "Pon el contenido Markdown nuevo en \"body\". Se añadirá al final de la nota.",
	"enhance.promptReturnFrontmatter": "Pon los cambios de metadatos en \"frontmatter\", solo los campos que cambies.",
	"enhance.promptInvalidChars":      "Nunca uses los caracteres * \" \\ / < > : | ? dentro de [[enlaces]].",

	"images.searching":     "Buscando imágenes de {query}",
	"images.notFound":      "No se encontraron imágenes de {query}",
	"images.foundCount":    "Se encontraron {count} imágenes",
	"images.searchError":   "Falló la búsqueda de imágenes: {error}",
	"images.noteHasImages": "La nota ya tiene imágenes",
	"images.added":         "Se añadieron {count} imágenes a {path}",

	"url.missing":  "Se necesita una URL",
	"url.recorded": "Se registró {url} en {path}",

	"missing.selectField":  "Selecciona un campo de lista",
	"missing.noListFields": "La nota no tiene campos de lista",
	"missing.noLinks":      "El campo {field} no tiene enlaces",
	"missing.allExist":     "Todas las notas enlazadas ya existen",
	"missing.found":        "Se encontraron {count} notas faltantes",
	"missing.created":      "Creada {path}",
	"missing.skipped":      "{path} ya existe, se omite",
	"missing.failed":       "No se pudo crear {path}: {error}",
	"missing.finished":     "Terminado: {created} creadas, {failed} con error",

	"relocate.noField":         "No hay un campo de ubicación con valor",
	"relocate.unresolved":      "No se pudo resolver {link}",
	"relocate.alreadyInFolder": "La nota ya está en {folder}",
	"relocate.folderNote":      "Las notas de carpeta no se mueven",
	"relocate.moveError":       "No se pudo mover la nota: {error}",

	"templates.noPrompt":          "La plantilla {template} no tiene prompt",
	"templates.promptTitle":       "La nota se titula \"{title}\".",
	"templates.fileAlreadyExists": "{path} ya existe",
	"templates.noImages":          "No hay imágenes para analizar",
	"templates.generating":        "Analizando {count} imágenes",
}
