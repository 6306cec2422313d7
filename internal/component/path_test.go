package component

import (
	"path/filepath"
	"testing"
)

func TestLocalPath(t *testing.T) {
	tests := []struct {
		name string
		c    Component
		want string
	}{
		{
			"vue factory",
			Component{Name: "TableFactory", Type: TypeFactory, Framework: FrameworkVue},
			filepath.Join("src", "factories", "vue", "TableFactory.vue"),
		},
		{
			"react component tsx",
			Component{Name: "Button", Type: TypeComponent, Framework: FrameworkReact,
				Code: "interface Props {}\nexport const Button: React.FC<Props> = () => null;"},
			filepath.Join("src", "components", "react", "Button.tsx"),
		},
		{
			"react component jsx",
			Component{Name: "Button", Type: TypeComponent, Framework: FrameworkReact,
				Code: "export const Button = () => null;"},
			filepath.Join("src", "components", "react", "Button.jsx"),
		},
		{
			"template has no framework subdir",
			Component{Name: "dashboard", Type: TypeTemplate, Framework: FrameworkReact,
				Code: "export default {};"},
			filepath.Join("templates", "dashboard.jsx"),
		},
		{
			"config goes to the project dir",
			Component{Name: "tailwind", Type: TypeConfig, Framework: FrameworkUnknown,
				Code: "module.exports = {};"},
			filepath.Join(ConfigDir, "tailwind.jsx"),
		},
		{
			"angular component",
			Component{Name: "GridComponent", Type: TypeComponent, Framework: FrameworkAngular},
			filepath.Join("src", "components", "angular", "GridComponent.ts"),
		},
		{
			"svelte component",
			Component{Name: "Card", Type: TypeComponent, Framework: FrameworkSvelte},
			filepath.Join("src", "components", "svelte", "Card.svelte"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LocalPath(&tt.c)
			if got != tt.want {
				t.Errorf("LocalPath() = %q, want %q", got, tt.want)
			}
			// Same component, same path, every time.
			if again := LocalPath(&tt.c); again != got {
				t.Errorf("LocalPath() not deterministic: %q vs %q", got, again)
			}
		})
	}
}
