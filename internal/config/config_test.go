package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) string {
	return func(k string) string { return env[k] }
}

func TestParse_Defaults(t *testing.T) {
	t.Parallel()
	data := []byte(`
cluster_id: "12345"
load_balancer_id: "678"
linode:
  token: ${LINODE_TOKEN}
`)

	cfg, err := Parse(data, lookupFrom(map[string]string{"LINODE_TOKEN": "secret"}))
	require.NoError(t, err)

	assert.Equal(t, ProviderLinode, cfg.Provider)
	assert.Equal(t, "secret", cfg.Linode.Token)
	assert.Equal(t, AddressPrivate, cfg.Linode.AddressType)
	assert.Equal(t, DefaultPorts(), cfg.Ports)
	assert.Equal(t, 100, cfg.Binding.Weight)
	assert.Equal(t, "accept", cfg.Binding.Mode)
	assert.Equal(t, 2, cfg.Binding.Parallelism)
	assert.Equal(t, "ccm-*", cfg.Cleanup.Pattern)
	assert.Equal(t, DefaultKubeNodeSelector, cfg.KubeNodeSelector)
	assert.Equal(t, PolicyDelete, cfg.Cleanup.Kinds["loadbalancer"])
	assert.Equal(t, PolicyReview, cfg.Cleanup.Kinds["volume"])
	assert.False(t, cfg.ObjectStorage.Enabled())
}

func TestParse_CustomPorts(t *testing.T) {
	t.Parallel()
	data := []byte(`
provider: hcloud
hcloud:
  token: abc
  cluster_label: cluster
ports:
  - listen_port: 8080
    target_port: 31080
    protocol: tcp
binding:
  weight: 50
  mode: drain
  parallelism: 4
cleanup:
  pattern: "k8s-*"
  kinds:
    loadbalancer: review
object_storage:
  endpoint: https://eu-central-1.linodeobjects.com
  access_key: ak
  secret_key: sk
`)

	cfg, err := Parse(data, lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, ProviderHCloud, cfg.Provider)
	assert.Equal(t, "cluster", cfg.HCloud.ClusterLabel)
	assert.Equal(t, AddressPublic, cfg.HCloud.AddressType)
	require.Len(t, cfg.Ports, 1)
	assert.Equal(t, "tcp", cfg.Ports[0].Name)
	assert.Equal(t, 50, cfg.Binding.Weight)
	assert.Equal(t, map[string]string{"loadbalancer": PolicyReview}, cfg.Cleanup.Kinds)
	assert.True(t, cfg.ObjectStorage.Enabled())
	assert.Equal(t, "us-east-1", cfg.ObjectStorage.Region)
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		data    string
		wantErr []string
	}{
		{
			name:    "missing token",
			data:    `provider: linode`,
			wantErr: []string{"linode.token is required"},
		},
		{
			name:    "unknown provider",
			data:    `provider: aws`,
			wantErr: []string{`provider must be "linode" or "hcloud"`},
		},
		{
			name: "bad ports and binding",
			data: `
linode: {token: t}
ports:
  - {listen_port: 80, target_port: 0}
  - {listen_port: 80, target_port: 30080}
binding: {weight: 300, mode: sideways}
`,
			wantErr: []string{
				"ports[0].target_port 0 out of range",
				"ports[1].listen_port 80 is duplicated",
				"binding.weight must be between 1 and 255",
				`binding.mode "sideways"`,
			},
		},
		{
			name: "bad cleanup",
			data: `
linode: {token: t}
cleanup:
  pattern: "ccm-["
  kinds: {loadbalancer: nuke, pods: review}
`,
			wantErr: []string{
				`cleanup.pattern "ccm-["`,
				`unknown kind "pods"`,
				`cleanup.kinds.loadbalancer: policy must be`,
			},
		},
		{
			name:    "bad kube node selector",
			data:    "linode: {token: t}\nkube_node_selector: \"role in (a\"\n",
			wantErr: []string{`kube_node_selector "role in (a" is invalid`},
		},
		{
			name:    "unknown field",
			data:    "linode: {token: t}\nclusterid: 1\n",
			wantErr: []string{"failed to unmarshal yaml"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.data), lookupFrom(nil))
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_LINODE_TOKEN", "from-env")
	path := filepath.Join(t.TempDir(), "lkebind.yaml")
	require.NoError(t, os.WriteFile(path, []byte("linode:\n  token: ${TEST_LINODE_TOKEN}\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Linode.Token)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}
