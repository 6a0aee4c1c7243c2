package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-claimform/pkg/model"
	"github.com/goliatone/go-claimform/pkg/orchestrator"
	"github.com/goliatone/go-claimform/pkg/session"
	"github.com/goliatone/go-claimform/pkg/signing"
)

var renderFlags struct {
	stage    string
	step     int
	answers  string
	view     string
	renderer string
	output   string
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render one screen of the site to stdout or a file",
	Long:  "Builds a session in the requested stage, optionally pre-filled from a JSON answers file, and renders it with the chosen renderer.",
	RunE: func(cmd *cobra.Command, args []string) error {
		orch, err := newOrchestrator(cfg)
		if err != nil {
			return err
		}
		answers, err := readAnswers(renderFlags.answers)
		if err != nil {
			return err
		}
		sess := orch.NewSession("render")
		if err := advance(sess, renderFlags.stage, renderFlags.step, answers); err != nil {
			return err
		}
		if sess.Stage() == session.StageSigning && renderFlags.view != "" {
			view, err := signing.ParseView(renderFlags.view)
			if err != nil {
				return err
			}
			if err := sess.Signing.Show(view); err != nil {
				return err
			}
		}

		out, err := orch.Generate(cmd.Context(), orchestrator.Request{
			Session:  sess,
			Renderer: renderFlags.renderer,
		})
		if err != nil {
			return eris.Wrap(err, "render")
		}
		if renderFlags.output == "" {
			_, err = cmd.OutOrStdout().Write(out)
			return err
		}
		if err := os.WriteFile(renderFlags.output, out, 0o644); err != nil {
			return eris.Wrapf(err, "write %s", renderFlags.output)
		}
		cmd.Printf("Rendered %s to %s\n", sess.Stage(), renderFlags.output)
		return nil
	},
}

func init() {
	f := renderCmd.Flags()
	f.StringVar(&renderFlags.stage, "stage", "home", "screen to render: home, intake or signing")
	f.IntVar(&renderFlags.step, "step", 1, "questionnaire step for --stage intake")
	f.StringVar(&renderFlags.answers, "answers", "", "JSON file of answers keyed by field name")
	f.StringVar(&renderFlags.view, "view", "", "signing document: agreement or declaration")
	f.StringVar(&renderFlags.renderer, "renderer", "", "renderer name (default vanilla)")
	f.StringVarP(&renderFlags.output, "output", "o", "", "output file (stdout if empty)")
	rootCmd.AddCommand(renderCmd)
}

func readAnswers(path string) (map[model.FieldName]string, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read answers %s", path)
	}
	var values map[string]string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, eris.Wrapf(err, "decode answers %s", path)
	}
	out := make(map[model.FieldName]string, len(values))
	for name, value := range values {
		out[model.FieldName(name)] = value
	}
	return out, nil
}

// advance drives a fresh session to the requested screen. Answers are
// entered step by step, the way a claimant would.
func advance(sess *session.Session, stage string, step int, answers map[model.FieldName]string) error {
	switch stage {
	case "", "home":
		return nil
	case "intake":
		if step < 1 || step > model.StepCount {
			return fmt.Errorf("step must be between 1 and %d", model.StepCount)
		}
	case "signing":
		step = model.StepCount
	default:
		return fmt.Errorf("unknown stage %q", stage)
	}
	for name := range answers {
		if _, ok := model.LookupField(name); !ok {
			return eris.Wrapf(model.ErrUnknownField, "apply answers: %q", name)
		}
	}

	sess.OpenIntake()
	for n := 1; n <= step; n++ {
		if err := sess.Form.SetAll(answersFor(n, answers)); err != nil {
			return eris.Wrapf(err, "apply answers for step %d", n)
		}
		if n == step {
			break
		}
		if err := sess.Form.Next(); err != nil {
			return eris.Wrapf(err, "advance to step %d", n+1)
		}
	}
	if stage == "intake" {
		return nil
	}

	if err := sess.Form.Submit(); err != nil {
		return eris.Wrap(err, "answers incomplete")
	}
	if sess.Stage() != session.StageSigning {
		return eris.New("answers are not eligible for signing")
	}
	return nil
}

// answersFor picks the answers that belong to one step.
func answersFor(step int, answers map[model.FieldName]string) map[model.FieldName]string {
	def, err := model.StepAt(step)
	if err != nil {
		return nil
	}
	out := make(map[model.FieldName]string, len(def.Fields))
	for _, name := range def.Fields {
		if value, ok := answers[name]; ok {
			out[name] = value
		}
	}
	return out
}
