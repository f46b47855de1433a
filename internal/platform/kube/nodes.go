package kube

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/schemaitat/lab/internal/config"
	"github.com/schemaitat/lab/internal/provider"
)

// Labels that name a node's pool.
const (
	LabelLKEPool = "lke.linode.com/pool-id"
	LabelRole    = "k8zner.io/role"
)

// NodeSource implements provider.NodeLister from a cluster's node objects.
type NodeSource struct {
	clientset   kubernetes.Interface
	addressType string
	selector    string
}

var _ provider.NodeLister = (*NodeSource)(nil)

// Option configures a NodeSource.
type Option func(*NodeSource)

// WithAddressType selects the InternalIP (config.AddressPrivate, default)
// or ExternalIP (config.AddressPublic) as the node's backend address.
func WithAddressType(t string) Option {
	return func(s *NodeSource) {
		s.addressType = t
	}
}

// WithSelector restricts the nodes listed, e.g.
// "!node-role.kubernetes.io/control-plane".
func WithSelector(selector string) Option {
	return func(s *NodeSource) {
		s.selector = selector
	}
}

// NewNodeSource creates a node source from a kubeconfig file.
func NewNodeSource(kubeconfigPath string, opts ...Option) (*NodeSource, error) {
	cfg, err := clientcmd.BuildConfigFromFlags("", kubeconfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to build kubeconfig: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}

	return NewNodeSourceFromClientset(clientset, opts...), nil
}

// NewNodeSourceFromClientset creates a node source over an existing clientset.
func NewNodeSourceFromClientset(clientset kubernetes.Interface, opts ...Option) *NodeSource {
	s := &NodeSource{clientset: clientset, addressType: config.AddressPrivate}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListNodes returns every node the kubeconfig's cluster reports. The
// kubeconfig already pins the cluster, so clusterID is only recorded on
// the returned nodes.
func (s *NodeSource) ListNodes(ctx context.Context, clusterID string) ([]provider.Node, error) {
	list, err := s.clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{LabelSelector: s.selector})
	if err != nil {
		return nil, provider.NewError("list nodes", provider.KindCluster, clusterID, statusOf(err), err)
	}

	nodes := make([]provider.Node, 0, len(list.Items))
	for i := range list.Items {
		nodes = append(nodes, s.toNode(&list.Items[i], clusterID))
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Label < nodes[j].Label })
	return nodes, nil
}

func (s *NodeSource) toNode(n *corev1.Node, clusterID string) provider.Node {
	node := provider.Node{
		ID:             instanceID(n),
		Label:          n.Name,
		ClusterID:      clusterID,
		PoolID:         poolID(n),
		PublicAddress:  address(n, corev1.NodeExternalIP),
		PrivateAddress: address(n, corev1.NodeInternalIP),
	}
	if s.addressType == config.AddressPublic {
		node.Address = node.PublicAddress
	} else {
		node.Address = node.PrivateAddress
	}
	node.Ready = isReady(n) && !n.Spec.Unschedulable && node.Address != ""
	return node
}

// instanceID extracts the provider's instance id from spec.providerID
// ("linode://123", "hcloud://123"). Nodes without one fall back to their
// name.
func instanceID(n *corev1.Node) string {
	if n.Spec.ProviderID == "" {
		return n.Name
	}
	if _, id, ok := strings.Cut(n.Spec.ProviderID, "://"); ok && id != "" {
		return id
	}
	return n.Spec.ProviderID
}

func poolID(n *corev1.Node) string {
	if id := n.Labels[LabelLKEPool]; id != "" {
		return id
	}
	return n.Labels[LabelRole]
}

func address(n *corev1.Node, t corev1.NodeAddressType) string {
	for _, a := range n.Status.Addresses {
		if a.Type == t {
			return a.Address
		}
	}
	return ""
}

func isReady(n *corev1.Node) bool {
	for _, c := range n.Status.Conditions {
		if c.Type == corev1.NodeReady {
			return c.Status == corev1.ConditionTrue
		}
	}
	return false
}

func statusOf(err error) int {
	var st apierrors.APIStatus
	if errors.As(err, &st) {
		return int(st.Status().Code)
	}
	return 0
}
