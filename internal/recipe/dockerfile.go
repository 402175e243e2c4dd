package recipe

import (
	"encoding/json"
	"sort"
	"strings"
	"text/template"

	"github.com/gantrylabs/gantry/internal/errx"
	"github.com/gantrylabs/gantry/internal/manifest"
)

// Dockerfile equivalent of the canonical recipe, for users who build
// with a container CLI instead of gantry.
const dockerfileTemplate = `FROM {{ .BaseImage }}
{{ range .EnvLines }}
ENV {{ . }}
{{- end }}

WORKDIR {{ .Workdir }}

COPY {{ .RequirementsFile }} {{ .PyprojectFile }} ./

RUN pip install --no-cache-dir --upgrade -r {{ .RequirementsFile }}

COPY {{ .AppDir }} ./{{ .AppDir }}
COPY {{ .TestsDir }} ./{{ .TestsDir }}

EXPOSE {{ .Port }}

CMD {{ .Command }}
`

// Renders the recipe as a Dockerfile.
//
// The output follows the same canonical ordering the step executor uses:
// manifest copy, dependency install, then source copies, so that layer
// caching survives code-only changes.
func (r *Recipe) Dockerfile() (string, error) {
	command, err := json.Marshal(r.Entrypoint)
	if err != nil {
		return "", errx.Wrap(ErrRecipe, err)
	}

	env := make([]string, 0, len(r.Env))
	for k, v := range r.Env {
		env = append(env, k+"="+v)
	}
	sort.Strings(env)

	data := struct {
		BaseImage        string
		EnvLines         []string
		Workdir          string
		RequirementsFile string
		PyprojectFile    string
		AppDir           string
		TestsDir         string
		Port             int
		Command          string
	}{
		BaseImage:        r.BaseImage,
		EnvLines:         env,
		Workdir:          r.Workdir,
		RequirementsFile: manifest.RequirementsFile,
		PyprojectFile:    manifest.PyprojectFile,
		AppDir:           manifest.AppDir,
		TestsDir:         manifest.TestsDir,
		Port:             r.Port,
		Command:          string(command),
	}

	tmpl, err := template.New("dockerfile").Parse(dockerfileTemplate)
	if err != nil {
		return "", errx.Wrap(ErrRecipe, err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errx.Wrap(ErrRecipe, err)
	}

	return buf.String(), nil
}
