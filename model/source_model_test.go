package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSimpleModel(t *testing.T) *SourceModel {
	t.Helper()
	d := NewDraft()

	svc := &TypeEntity{
		FQN: "svc.OrderService", SimpleName: "OrderService", Package: "svc", Kind: KindClass,
		Annotations: []AnnotationRef{NewAnnotationRef("Service", "org.springframework.stereotype.Service")},
	}
	d.AddType(svc)

	create := &MethodEntity{
		FQN:            "svc.OrderService#createOrder(model.Order)",
		ContainingType: "svc.OrderService",
		SimpleName:     "createOrder",
		Annotations:    []AnnotationRef{NewAnnotationRef("Transactional", "org.springframework.transaction.annotation.Transactional")},
		Parameters:     []Parameter{{Name: "order", Type: NewTypeRef("Order", "model.Order")}},
	}
	d.AddMethod(create)
	d.AddRelationship(NewContains(svc.FQN, create.FQN))

	post := &MethodEntity{
		FQN:            "net.HttpClient#post(String,String)",
		ContainingType: "net.HttpClient",
		SimpleName:     "post",
	}
	httpClient := &TypeEntity{FQN: "net.HttpClient", SimpleName: "HttpClient", Package: "net", Kind: KindClass}
	d.AddType(httpClient)
	d.AddMethod(post)

	d.AddRelationship(NewCall(create.FQN, "httpClient.post(url, body)", post.FQN, CallVirtual, Location{File: "OrderService.java", Line: 10, Column: 5}, []string{"String", "String"}, nil))

	model, err := d.Freeze()
	require.NoError(t, err)
	return model
}

func TestFreezeBuildsIndexes(t *testing.T) {
	m := buildSimpleModel(t)

	assert.NotNil(t, m.GetType("svc.OrderService"))
	assert.NotNil(t, m.GetMethod("svc.OrderService#createOrder(model.Order)"))
	assert.True(t, m.IsApplicationMethod("svc.OrderService#createOrder(model.Order)"))

	txMethods := m.GetMethodsByAnnotation("Transactional")
	require.Len(t, txMethods, 1)
	assert.Equal(t, "createOrder", txMethods[0].SimpleName)

	calls := m.RelationshipsOfKind(KindCalls)
	require.Len(t, calls, 1)
	assert.Equal(t, "net.HttpClient#post(String,String)", calls[0].ResolvedFQN)
	assert.True(t, calls[0].Resolved)
}

func TestFreezeRejectsDanglingCallSource(t *testing.T) {
	d := NewDraft()
	d.AddRelationship(NewCall("ghost.Method#run()", "foo()", "bar.Bar#baz()", CallDirect, Location{}, nil, nil))

	_, err := d.Freeze()
	assert.Error(t, err)
}

func TestMethodsInTypeAndTypesInPackage(t *testing.T) {
	m := buildSimpleModel(t)

	methods := m.MethodsInType("svc.OrderService")
	require.Len(t, methods, 1)

	types := m.TypesInPackage("svc")
	require.Len(t, types, 1)
	assert.Equal(t, "OrderService", types[0].SimpleName)
}

func TestContainerComponentComputedOnFreeze(t *testing.T) {
	m := buildSimpleModel(t)
	svc := m.GetType("svc.OrderService")
	require.NotNil(t, svc)
	assert.True(t, svc.IsContainerComponent)

	client := m.GetType("net.HttpClient")
	require.NotNil(t, client)
	assert.False(t, client.IsContainerComponent)
}
